package llm

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a generation call failed.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
)

// GenerationError reports a single failed call to the generative service.
type GenerationError struct {
	Kind   FailureKind
	Status int
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Kind == FailureStatus {
		return fmt.Sprintf("generation failed: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsGenerationError reports whether err wraps a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
