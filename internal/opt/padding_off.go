//go:build (amd64 || 386 || arm || mips || mipsle || wasm) && !wakelist_disable_padding && !wakelist_enable_padding

package opt

import "sync/atomic"

const Padded_ = false

// PaddedUint64_ is an atomic word.
// Padding is disabled by default for:
// - amd64
// - 32-bit architectures (386, arm, mips, mipsle, wasm)
type PaddedUint64_ struct {
	atomic.Uint64
}
