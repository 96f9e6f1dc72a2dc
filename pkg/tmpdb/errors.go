package tmpdb

import (
	"errors"

	"github.com/vvka-141/tmpdb/internal/name"
)

// Sentinel errors. Callers distinguish failure classes with errors.Is().
var (
	// ErrUnsupportedBackend indicates the URL scheme names no known backend.
	ErrUnsupportedBackend = errors.New("unsupported database backend")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotCreated indicates an operation that needs a provisioned
	// database was called before one exists.
	ErrNotCreated = errors.New("temporary database not created")

	// ErrTemplateTooLong indicates the name template cannot be shortened
	// below the backend's identifier length ceiling. This is a
	// configuration error and is never retried.
	ErrTemplateTooLong = name.ErrTooLong

	// ErrCreateExhausted indicates every creation attempt failed.
	ErrCreateExhausted = errors.New("could not create a unique database")

	// ErrExecutionFailed indicates SQL execution failed.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrDropFailed indicates a database could not be dropped.
	ErrDropFailed = errors.New("drop failed")
)

// Exit codes for the CLI, following the usual Unix conventions: 0 success,
// 1 general error, 2 usage error, then application-specific codes.
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitUsageError      = 2
	ExitPanic           = 3
	ExitConfigError     = 10
	ExitCreateFailed    = 11
	ExitExecutionFailed = 12
	ExitDropFailed      = 13
)

// ExitCodeForError returns the exit code matching err. Nil maps to
// ExitSuccess, unclassified errors to ExitGeneralError.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUnsupportedBackend),
		errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrTemplateTooLong),
		errors.Is(err, ErrNotCreated):
		return ExitConfigError
	case errors.Is(err, ErrCreateExhausted):
		return ExitCreateFailed
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	case errors.Is(err, ErrDropFailed):
		return ExitDropFailed
	}
	return ExitGeneralError
}
