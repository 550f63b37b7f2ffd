package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations.
var (
	// ErrAssertion indicates a failed status or content expectation.
	ErrAssertion = errors.New("assertion failed")

	// ErrSerialization indicates a body value that cannot be encoded.
	ErrSerialization = errors.New("cannot serialize parameter")

	// ErrFilesWithJSON indicates a file upload combined with a JSON body.
	ErrFilesWithJSON = errors.New("cannot mix file upload and json")

	// ErrNilTransport indicates a client built without transport.
	ErrNilTransport = errors.New("transport is required")
)

// Expectation kinds.
const (
	ExpectKindStatus  = "status"
	ExpectKindContent = "content"
)

// AssertError is returned instead of failing the test when the client runs
// in assertion-error mode.
type AssertError struct {
	// Kind is ExpectKindStatus or ExpectKindContent.
	Kind string

	// Message is the failure message, as reported in test mode.
	Message string
}

// Error implements the error interface.
func (e *AssertError) Error() string {
	return e.Message
}

// Is matches ErrAssertion.
func (e *AssertError) Is(target error) bool {
	return target == ErrAssertion
}

// SerializationError reports a JSON or form field that cannot be encoded.
type SerializationError struct {
	// Body is "json" or "form".
	Body string

	// Field is the offending field name.
	Field string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s field %q: %v", ErrSerialization, e.Body, e.Field, e.Cause)
	}
	return fmt.Sprintf("%v: %s field %q", ErrSerialization, e.Body, e.Field)
}

// Unwrap returns the underlying error.
func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// Is matches ErrSerialization.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// IsAssertError reports whether err is an *AssertError.
func IsAssertError(err error) bool {
	var assertErr *AssertError
	return errors.As(err, &assertErr)
}
