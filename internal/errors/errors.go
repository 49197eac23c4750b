// Package errors provides structured error types and exit codes for specrun.
package errors

import (
	"fmt"
)

// Exit codes returned by the specrun CLI.
const (
	ExitSuccess      = 0 // Success
	ExitRuntimeError = 1 // Runtime error (spec failed, command failed, etc.)
	ExitConfigError  = 2 // Configuration or document error (parse/bind/config failure)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindParse
	KindBind
	KindExecution
	KindValidation
	KindResource
	KindConfig
)

// Reason pinpoints the failure within a kind.
type Reason string

const (
	// Parse failures. Fatal to the document being parsed, never partial.
	ReasonInvalidSyntax        Reason = "invalid_syntax"
	ReasonUnexpectedValueShape Reason = "unexpected_value_shape"

	// Bind failures.
	ReasonMissingRequiredField Reason = "missing_required_field"
	ReasonInvalidFieldType     Reason = "invalid_field_type"

	// Execution failures. Recorded on the result, not thrown up the stack.
	ReasonSpawnFailed        Reason = "spawn_failed"
	ReasonSetupCommandFailed Reason = "setup_command_failed"

	// Validation failures. Produce a Failed result with a readable reason.
	ReasonExitCodeMismatch    Reason = "exit_code_mismatch"
	ReasonExactOutputMismatch Reason = "exact_output_mismatch"
	ReasonContainsMismatch    Reason = "contains_mismatch"

	// Resource failures. Surface as a synthetic Failed result per entry.
	ReasonFileNotFound        Reason = "file_not_found"
	ReasonDirectoryUnreadable Reason = "directory_unreadable"
)

// Error is the base error type for specrun.
type Error struct {
	Kind    ErrorKind
	Reason  Reason
	Message string
	Spec    string // Spec name if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	if e.Spec != "" {
		return fmt.Sprintf("[%s] %s", e.Spec, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindParse, KindBind, KindConfig:
		return ExitConfigError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Parse creates a parse error.
func Parse(reason Reason, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindParse,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// Bind creates a bind error.
func Bind(reason Reason, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindBind,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// Execution creates an execution error.
func Execution(reason Reason, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindExecution,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// Resource creates a resource error.
func Resource(reason Reason, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindResource,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// Config creates a configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// SpecError creates an error attributed to a specific spec.
func SpecError(spec, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Spec:    spec,
		Message: message,
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if se, ok := err.(*Error); ok {
		return se.ExitCode()
	}
	return ExitRuntimeError
}
