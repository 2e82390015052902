//go:build wakelist_disable_padding && !wakelist_enable_padding

package opt

import "sync/atomic"

const Padded_ = false

// PaddedUint64_ is an atomic word.
// Padding is force-disabled via the wakelist_disable_padding build tag.
// Use: go build -tags=wakelist_disable_padding
type PaddedUint64_ struct {
	atomic.Uint64
}
