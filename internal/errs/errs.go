// Package errs defines the failure taxonomy shared by the pricing and
// penalty domains. Every domain error wraps exactly one of these.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is an out-of-range or missing argument.
	ErrInvalidInput = errors.New("invalid_input")
	// ErrInvalidInterval is an exit time before the entry time.
	ErrInvalidInterval = errors.New("invalid_interval")
	// ErrInvalidConfig is a non-positive limit or a missing fee/cap value.
	ErrInvalidConfig = errors.New("invalid_config")
)

// Error is a coded domain error classified under a taxonomy sentinel.
type Error struct {
	Kind error
	Code string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Code) }

func (e *Error) Unwrap() error { return e.Kind }

// New builds a coded error under kind.
func New(kind error, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

// Code returns the most specific code carried by err, or "" if none.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsValidation reports whether err belongs to the taxonomy.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInvalidConfig)
}
