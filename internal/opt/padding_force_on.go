//go:build wakelist_enable_padding

package opt

import (
	"sync/atomic"
	"unsafe"
)

const Padded_ = true

// PaddedUint64_ is an atomic word that owns a whole cache line.
// Padding is force-enabled via the wakelist_enable_padding build tag.
// Use: go build -tags=wakelist_enable_padding
type PaddedUint64_ struct {
	atomic.Uint64
	_ [(CacheLineSize_ - unsafe.Sizeof(atomic.Uint64{})%CacheLineSize_) % CacheLineSize_]byte
}
