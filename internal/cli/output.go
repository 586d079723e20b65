package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/basiskit/internal/basis"
)

// Exit codes for CLI commands. Each basis error kind maps to its own code
// so scripted callers can branch on the failure without parsing output.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Generic failure
	ExitCommandError = 2 // Command error (invalid flags, database not found, etc.)

	ExitInvalidElement    = 3
	ExitDuplicateElement  = 4
	ExitElementMismatch   = 5
	ExitNotFound          = 6
	ExitMissingElements   = 7
	ExitSourceUnavailable = 8
	ExitParseError        = 9
	ExitAlreadyExists     = 10
	ExitAmbiguous         = 11
)

// exitCodes maps error codes of the basis taxonomy to exit statuses.
var exitCodes = map[basis.ErrorCode]int{
	basis.CodeInvalidElement:    ExitInvalidElement,
	basis.CodeDuplicateElement:  ExitDuplicateElement,
	basis.CodeElementMismatch:   ExitElementMismatch,
	basis.CodeNotFound:          ExitNotFound,
	basis.CodeMissingElements:   ExitMissingElements,
	basis.CodeSourceUnavailable: ExitSourceUnavailable,
	basis.CodeParseError:        ExitParseError,
	basis.CodeAlreadyExists:     ExitAlreadyExists,
	basis.CodeAmbiguous:         ExitAmbiguous,
}

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// WrapDomainError wraps a basis-layer error with the exit code of its kind.
func WrapDomainError(message string, err error) *ExitError {
	code := ExitFailure
	if mapped, ok := exitCodes[basis.CodeOf(err)]; ok {
		code = mapped
	}
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Unwrapped basis errors map through their kind; anything else is a
// generic failure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if mapped, ok := exitCodes[basis.CodeOf(err)]; ok {
		return mapped
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // error kind, e.g. "PARSE_ERROR"
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, logs go to ErrWriter to avoid corrupting the payload.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
