package libsync

import "fmt"

// Process exit codes.
const (
	ExitClean    = 0
	ExitErrors   = 1
	ExitWarnings = 2
)

// ExitCode maps the run totals to a process exit code. Errors win over
// warnings.
func ExitCode(errorCount, warningCount int) int {
	switch {
	case errorCount > 0:
		return ExitErrors
	case warningCount > 0:
		return ExitWarnings
	default:
		return ExitClean
	}
}

// ExitError carries a non-zero exit code out of a command whose outcome has
// already been reported.
type ExitError struct {
	Code     int
	Errors   int
	Warnings int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("run finished with %d error(s) and %d warning(s)", e.Errors, e.Warnings)
}

func exitErrorFor(errorCount, warningCount int) error {
	code := ExitCode(errorCount, warningCount)
	if code == ExitClean {
		return nil
	}
	return &ExitError{Code: code, Errors: errorCount, Warnings: warningCount}
}
