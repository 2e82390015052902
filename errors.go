package wakelist

import "errors"

var (
	// ErrInvalidHandle is returned for a Handle that no Register call
	// produced, such as the zero Handle.
	ErrInvalidHandle = errors.New("wakelist: invalid handle")

	// ErrStaleHandle is returned for a Handle whose registration has
	// already been unregistered. The slot may since have been reused.
	ErrStaleHandle = errors.New("wakelist: stale handle")
)
