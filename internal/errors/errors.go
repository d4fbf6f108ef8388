// Package errors defines the error kinds shared across packages. Domain errors
// wrap one of these kinds so the HTTP layer can map them to a status code
// without knowing the domain.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks caller mistakes: malformed or undecryptable values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable marks a missing or unusable dependency, such as the
	// encryption key. Callers may retry later.
	ErrUnavailable = errors.New("unavailable")

	// ErrTooManyRequests marks a caller that exceeded its request rate.
	ErrTooManyRequests = errors.New("too many requests")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message and keeps it in the chain. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
