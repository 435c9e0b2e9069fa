package domain

import (
	"errors"
)

var (
	// ErrNotFound is returned when no live record exists for a short code.
	// Expired-and-purged records surface the same way as codes that never
	// existed.
	ErrNotFound = errors.New("short code not found")

	// ErrInvalidURL is returned when the long URL is not an absolute
	// HTTP or HTTPS URI.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrCodeConflict is returned by the store when inserting a record
	// whose code already exists.
	ErrCodeConflict = errors.New("short code already exists")
)
