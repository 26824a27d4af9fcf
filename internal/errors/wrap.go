package errors

import (
	"github.com/cockroachdb/errors"
)

// Re-exports of cockroachdb/errors helpers so callers only import this
// package. Wrapped errors keep their chains for errors.Is / errors.As.

// New creates an error with a simple message.
func New(msg string) error {
	return errors.New(msg)
}

// Newf creates an error with a formatted message.
func Newf(format string, args ...any) error {
	return errors.Newf(format, args...)
}

// Wrap annotates err with a message. Returns nil if err is nil.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}

// WithDetail attaches a detail string to err, shown in verbose output.
func WithDetail(err error, detail string) error {
	return errors.WithDetail(err, detail)
}

// WithDetailf attaches a formatted detail string to err.
func WithDetailf(err error, format string, args ...any) error {
	return errors.WithDetailf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
