// Package errdefs defines general error types and error operations.
package errdefs

import (
	"errors"
	"fmt"
)

// Newf wraps the base error and a formatted error created by fmt.Errorf,
// returns the error joined.
func Newf(base error, format string, args ...any) error {
	return errors.Join(base, fmt.Errorf(format, args...))
}

// NewE wraps the base error and the input error, returns the error joined.
func NewE(base error, err error) error {
	if err == nil || errors.Is(err, base) {
		return err
	}
	return errors.Join(base, err)
}

// IsAny reports whether err matches any of the base errors.
func IsAny(err error, bases ...error) bool {
	for _, base := range bases {
		if errors.Is(err, base) {
			return true
		}
	}
	return false
}

// Ignore returns nil when err matches any of the base errors, otherwise
// returns err unchanged.
func Ignore(err error, bases ...error) error {
	if IsAny(err, bases...) {
		return nil
	}
	return err
}
