package app

import (
	"errors"
	"fmt"
	"io"
)

// Exit codes returned by Run.
const (
	codeOK      = 0
	codeFailure = 1 // runtime failure, including a failed dataset load
	codeUsage   = 2 // bad flags or configuration
)

// ExitError carries the process exit code out of a command. A nil Err means
// the cause has already been reported.
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit %d", e.Code)
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func Exit(code int) error {
	return ExitError{Code: code}
}

func ExitWithError(code int, err error) error {
	return ExitError{Code: code, Err: err}
}

// asExitError finds an ExitError anywhere in err's chain, so commands may wrap it.
func asExitError(err error) (ExitError, bool) {
	var ee ExitError
	if !errors.As(err, &ee) {
		return ExitError{}, false
	}
	return ee, true
}

// exitCode reports err on stderr and maps it to a process exit code.
// Errors that never reached a RunE (unknown flags, bad arguments) are usage errors.
func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return codeOK
	}
	if ee, ok := asExitError(err); ok {
		if ee.Err != nil && ee.Code != codeOK {
			fmt.Fprintln(stderr, ee.Err)
		}
		return ee.Code
	}
	fmt.Fprintln(stderr, err)
	return codeUsage
}
