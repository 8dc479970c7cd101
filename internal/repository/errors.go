package repository

import "errors"

// Sentinel errors returned by every storage implementation. Services translate
// these into domain-level errors; callers never see driver errors directly.
var (
	// ErrNotFound is returned when no row matches the query, including
	// conditional writes whose guard did not hold.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert violates a unique constraint
	// (tenant slug, referral code, or tenant-scoped email).
	ErrDuplicate = errors.New("duplicate record")

	// ErrLimitReached is returned by NoteRepository.CreateIfUnderLimit when
	// the tenant already holds the maximum number of notes.
	ErrLimitReached = errors.New("note limit reached")
)
