// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// middleware and handlers to distinguish between different failure
// scenarios without inspecting driver errors. For example,
// ErrStoreUnavailable indicates that the Redis-backed revocation
// store could not be reached, which guards may treat as a degraded
// (fail-open) condition rather than a hard failure.
package repository

import "errors"

// ErrStoreUnavailable is returned by the revocation store when no
// Redis client is configured or a call to it fails. Guards decide
// whether to fail open or closed; either way the condition is logged
// as a security event.
var ErrStoreUnavailable = errors.New("revocation store unavailable")
