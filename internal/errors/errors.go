// Package errors provides error handling conventions for the sshmcp CLI.
//
// It defines sentinel errors for the provisioning failure taxonomy, an
// ExitError type carrying the process exit code, and exit code constants
// following standard Unix conventions. The happy-path exit code of the run
// and install commands is whatever the delegated child process returned, so
// ExitError supports arbitrary codes, not just the constants below.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, network, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for the provisioning failure taxonomy.
var (
	// ErrNodeNotFound indicates no Node.js executable was discovered anywhere
	// searched. By itself this is not fatal; it triggers provisioning.
	ErrNodeNotFound = errors.New("node executable not found")

	// ErrLauncherNotFound indicates the npx launcher is still unresolved
	// after provisioning. Fatal.
	ErrLauncherNotFound = errors.New("npx launcher not found")

	// ErrDownloadFailed indicates a network or HTTP failure while fetching
	// a distribution archive, including checksum mismatches. Fatal, never
	// retried.
	ErrDownloadFailed = errors.New("download failed")

	// ErrExtractionFailed indicates a corrupt or unsupported archive, or an
	// archive whose layout does not match a Node.js distribution. Fatal.
	ErrExtractionFailed = errors.New("archive extraction failed")

	// ErrInstallVerification indicates the expected executable was absent
	// after installation, signaling a broken distribution layout. Fatal.
	ErrInstallVerification = errors.New("installation verification failed")
)

// ExitError wraps an error with an exit code and optional suggestion.
// It implements the error interface and supports unwrapping via errors.Unwrap.
// An ExitError with a nil Err is a silent exit: it carries a delegated child
// process's exit code without any diagnostic of our own to print.
type ExitError struct {
	// Err is the underlying error that caused the exit, or nil for a
	// silent pass-through of a child's exit code.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
