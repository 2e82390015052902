package wakelist

// ScanOrder selects the order in which WakeOne visits slots.
type ScanOrder uint8

const (
	// NewestFirst walks the slot list from its head: the most recently
	// allocated slot is offered a notification first.
	NewestFirst ScanOrder = iota
	// OldestFirst walks slots by ascending index, so long-standing
	// registrations are woken before newer ones.
	OldestFirst
)

// String implements fmt.Stringer.
func (o ScanOrder) String() string {
	switch o {
	case NewestFirst:
		return "NewestFirst"
	case OldestFirst:
		return "OldestFirst"
	default:
		return "ScanOrder(?)"
	}
}

// RegistryConfig defines configurable options for Registry initialization.
type RegistryConfig struct {
	// capacity is the number of slots to make room for up front.
	// Slots beyond it are still allocated on demand.
	capacity int

	// order is the WakeOne scan order. Defaults to NewestFirst.
	order ScanOrder
}

// WithCapacity pre-allocates storage for cap slots and as many garbage
// markers, so the first cap registrations do not allocate blocks.
// If cap is zero or negative, the value is ignored.
func WithCapacity(cap int) func(*RegistryConfig) {
	return func(c *RegistryConfig) {
		c.capacity = cap
	}
}

// WithScanOrder sets the order in which WakeOne looks for a slot to wake.
//
// Usage:
//
//	r := NewRegistry(WithScanOrder(OldestFirst))
func WithScanOrder(order ScanOrder) func(*RegistryConfig) {
	return func(c *RegistryConfig) {
		c.order = order
	}
}
