// Package core provides the answer-and-share pipeline client and its
// configuration.
package core

import (
	"errors"
	"fmt"
)

// Predefined errors for common failure scenarios.
var (
	// ErrInvalidInput indicates a missing or empty userId/prompt.
	ErrInvalidInput = errors.New("userId and prompt are required")

	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDataUnavailable indicates that the context data source could not
	// be read. No partial context is ever returned.
	ErrDataUnavailable = errors.New("context data unavailable")

	// ErrValidationRejected indicates that the generated answer failed the
	// output content policy.
	ErrValidationRejected = errors.New("answer rejected by output validator")

	// ErrGenerationFailed indicates that the answer generator failed.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrStorageOperation indicates that a storage operation failed.
	ErrStorageOperation = errors.New("storage operation failed")
)

// PipelineError wraps errors with operation context.
//
// It records which pipeline operation failed, making error messages more
// informative for debugging.
//
// Example:
//
//	err := &PipelineError{
//	    Op:  "Query",
//	    Err: ErrDataUnavailable,
//	}
//	// Error() returns: "memshare: Query: context data unavailable"
type PipelineError struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
//
// The format is: "memshare: <Op>: <Err>"
func (e *PipelineError) Error() string {
	return fmt.Sprintf("memshare: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
//
// This allows using errors.Is() and errors.As() with PipelineError.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a new PipelineError wrapping the given error.
//
// If err is nil, returns nil. This allows safe error wrapping:
//
//	if err != nil {
//	    return NewPipelineError("Query", err)
//	}
func NewPipelineError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PipelineError{
		Op:  op,
		Err: err,
	}
}
