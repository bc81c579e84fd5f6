package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the changeforge CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a generate or check run failed
	ExitFailure = 1

	// ExitComplianceFailed indicates commit compliance graded F
	ExitComplianceFailed = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitNotARepository indicates no git repository was found
	ExitNotARepository = 4
)

// ExitError is an error carrying a specific process exit code. Commands
// return it when they want an exit code other than the generic failure.
type ExitError struct {
	code int
}

// NewExitError creates an ExitError with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// ExitCode maps an error to its process exit code. A nil error is
// success; errors that are not ExitError map to the generic failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return ExitFailure
}
