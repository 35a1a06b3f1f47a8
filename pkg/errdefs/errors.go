package errdefs

import "errors"

// Sentinel errors, test with errors.Is.
var (
	// ErrNotFound means the referenced asset has no stored original.
	ErrNotFound = errors.New("not found")
	// ErrInvalidParameter means the input is malformed.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrConflict means a write met different stored content and the conflict
	// policy refused to resolve it.
	ErrConflict = errors.New("conflict")
	// ErrAlreadyExists means a registration reused a taken name.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnsupported means the operation does not apply to the input.
	ErrUnsupported = errors.New("unsupported")
)
