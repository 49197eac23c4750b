// Package specrun provides public constants for external tools integrating
// with specrun.
package specrun

// Exit codes returned by the specrun CLI. These constants allow external
// tools to check exit codes symbolically rather than using magic numbers.
const (
	// ExitSuccess indicates the run completed and every spec passed.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (a spec failed, a command
	// could not be spawned, a file was missing).
	ExitFailure = 1

	// ExitConfigError indicates a document or configuration error (parse
	// failure, bind failure, invalid configuration).
	ExitConfigError = 2
)

// Spec result statuses as they appear in JSON reports.
const (
	StatusPassed           = "passed"
	StatusFailed           = "failed"
	StatusGenerateRequired = "generate_required"
)
