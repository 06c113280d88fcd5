package store

import "errors"

// Sentinel errors returned by stores. The gateway maps these onto its
// request-level error taxonomy.
var (
	// ErrInvalidCredential covers both unknown username and wrong password,
	// so callers cannot distinguish the two.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrInvalidTicket covers absent, expired, used-up, and dangling tickets.
	ErrInvalidTicket = errors.New("invalid ticket")

	// ErrUnknownTarget means the target name matches no registered target.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrNotFound is returned by admin operations on missing records.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("record already exists")
)
