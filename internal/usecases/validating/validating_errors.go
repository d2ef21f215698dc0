package validating

import "fmt"

// ValidationError reports the first check the bundle failed. A failed gate is
// fatal for the current run and is never patched downstream.
type ValidationError struct {
	Check  string // name of the failed check
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("report validation failed on %s: %s", e.Check, e.Reason)
}

func newValidationError(check, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Check:  check,
		Reason: fmt.Sprintf(format, args...),
	}
}
