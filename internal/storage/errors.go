package storage

import "errors"

// Domain errors for the storage package.
var (
	// ErrNotFound is returned by Store.Load when the key has no value.
	ErrNotFound = errors.New("storage: key not found")

	// ErrInvalidKey is returned for an empty key or one containing a slash.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrRemoteUnavailable is returned when the remote store answers with a
	// non-success status.
	ErrRemoteUnavailable = errors.New("storage: remote unavailable")

	// ErrSuperseded is reported by a Result whose write was skipped because a
	// newer write of the same key had already completed.
	ErrSuperseded = errors.New("storage: superseded by newer write")
)
