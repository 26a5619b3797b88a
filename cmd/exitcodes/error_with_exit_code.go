package exitcodes

import "github.com/pkg/errors"

// ErrorWithExitCode pairs an error returned by a u256diff command with the process exit code main should terminate
// with. A nil inner error means the command already reported its outcome, such as `fuzz` or `replay` printing a
// failure before exiting with ExitCodeTestFailed.
type ErrorWithExitCode struct {
	err      error
	exitCode int
}

// NewErrorWithExitCode wraps err so that it terminates the process with exitCode once it reaches main.
func NewErrorWithExitCode(err error, exitCode int) *ErrorWithExitCode {
	return &ErrorWithExitCode{
		err:      err,
		exitCode: exitCode,
	}
}

// Error implements the error interface. It is empty when the command reported its outcome itself.
func (e *ErrorWithExitCode) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

// Unwrap returns the inner error.
func (e *ErrorWithExitCode) Unwrap() error {
	return e.err
}

// ExitCode returns the exit code carried by the error.
func (e *ErrorWithExitCode) ExitCode() int {
	return e.exitCode
}

// GetInnerErrorAndExitCode resolves the error a command returned into the error main should print and the exit code
// it should terminate with: ExitCodeSuccess for nil, the carried code for an ErrorWithExitCode anywhere in the wrap
// chain, and ExitCodeGeneralError otherwise.
func GetInnerErrorAndExitCode(err error) (error, int) {
	if err == nil {
		return nil, ExitCodeSuccess
	}
	var withExitCode *ErrorWithExitCode
	if errors.As(err, &withExitCode) {
		return withExitCode.err, withExitCode.exitCode
	}
	return err, ExitCodeGeneralError
}
