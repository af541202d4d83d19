package model

import "errors"

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the record exists but belongs to a different owner.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidPosition means a requested position is negative or beyond the
	// owner's current record count.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrValidation covers malformed or missing input fields.
	ErrValidation = errors.New("validation error")
	// ErrConflictRetryExhausted means a concurrent-modification conflict
	// persisted across the bounded retry budget.
	ErrConflictRetryExhausted = errors.New("conflict retries exhausted")
)
