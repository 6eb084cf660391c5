package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrNotFound     = errors.New("not found")

	// ErrConflictRetryExhausted means the atomic create-if-absent path
	// could not resolve within its bounded retries. Surfaced as a hard
	// failure: returning stale or partial data would break the
	// one-row-per-industry invariant.
	ErrConflictRetryExhausted = errors.New("concurrent insight creation could not be resolved")
)
