package wakelist_test

import (
	"fmt"

	"github.com/llxisdsh/wakelist"
)

func ExampleRegistry() {
	r := wakelist.NewRegistry()
	a := r.Register(wakelist.WakerFunc(func() { fmt.Println("wake a") }))
	b := r.Register(wakelist.WakerFunc(func() { fmt.Println("wake b") }))
	fmt.Println(a.Index(), b.Index())

	_ = r.Unregister(b)
	c := r.Register(wakelist.WakerFunc(func() { fmt.Println("wake c") }))
	fmt.Println(c.Index())

	fmt.Println(r.WakeOne())
	fmt.Println(r.WakeOne())
	fmt.Println(r.WakeOne())
	// Output:
	// 0 1
	// 1
	// wake c
	// true
	// wake a
	// true
	// false
}

func ExampleParker() {
	var r wakelist.Registry
	var p wakelist.Parker
	h := r.Register(&p)

	go r.WakeOne()
	p.Park()
	fmt.Println(r.Notified(h))
	// Output:
	// true <nil>
}

func ExampleLot() {
	var lot wakelist.Lot[string]
	lot.Register("mutex-1", wakelist.WakerFunc(func() { fmt.Println("mutex-1 waiter") }))
	lot.Register("mutex-2", wakelist.WakerFunc(func() { fmt.Println("mutex-2 waiter") }))

	lot.WakeOne("mutex-2")
	// Output:
	// mutex-2 waiter
}
