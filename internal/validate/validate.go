// Package validate compares observed command output and exit code against
// a test case's expectations. It is a pure function with no I/O.
package validate

import (
	"fmt"
	"strings"

	specerrors "specrun/internal/errors"
)

// Outcome is the verdict of one validation.
type Outcome struct {
	Passed  bool
	Reason  specerrors.Reason // set only when Passed is false
	Message string            // human-readable failure reason
}

// Validate checks the exit code first: a mismatch short-circuits without
// evaluating output expectations. When the exit code matches, the exact and
// substring expectations are checked independently and both must hold.
// Absent expectations pass unconditionally.
func Validate(output string, exitCode int, expectExact, expectContains *string, expectExitCode int) Outcome {
	if exitCode != expectExitCode {
		return Outcome{
			Reason:  specerrors.ReasonExitCodeMismatch,
			Message: fmt.Sprintf("exit code mismatch: expected %d, got %d", expectExitCode, exitCode),
		}
	}

	if expectExact != nil && output != *expectExact {
		return Outcome{
			Reason:  specerrors.ReasonExactOutputMismatch,
			Message: fmt.Sprintf("output mismatch: expected %q, got %q", clip(*expectExact), clip(output)),
		}
	}

	if expectContains != nil && !strings.Contains(output, *expectContains) {
		return Outcome{
			Reason:  specerrors.ReasonContainsMismatch,
			Message: fmt.Sprintf("output does not contain %q", clip(*expectContains)),
		}
	}

	return Outcome{Passed: true}
}

// clip keeps failure messages readable when a command produced a lot of
// output.
func clip(s string) string {
	const maxLen = 256
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
