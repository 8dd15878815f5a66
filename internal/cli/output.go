package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/ordergraph/internal/graph"
	"github.com/roach88/ordergraph/internal/intake"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Test/validation failure (rejected orders, failed scenarios, etc.)
	ExitCommandError = 2 // Command error (invalid paths, database not found, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
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

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`           // "ok" or "error"
	Data   any       `json:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty"`  // error details
	RunID  string    `json:"run_id,omitempty"` // optional verdict correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // error kind, e.g. "CYCLIC_DEPENDENCY"
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Error codes for failures that are not graph validation errors. Graph
// failures use their ErrorKind as the code.
const (
	ErrCodeDecode = "DECODE_ERROR"
	ErrCodeSchema = "SCHEMA_ERROR"
	ErrCodeStore  = "STORE_ERROR"
	ErrCodeCheck  = "CHECK_ERROR"
)

// toCLIError maps an error onto a CLIError. Validation errors keep their
// kind and structured details; schema violations are listed field by field.
func toCLIError(err error) *CLIError {
	var ve *graph.ValidationError
	if errors.As(err, &ve) {
		return &CLIError{
			Code:    string(ve.Kind),
			Message: ve.Message,
			Details: validationDetails(ve),
		}
	}

	var schemaErr *intake.SchemaError
	if errors.As(err, &schemaErr) {
		return &CLIError{
			Code:    ErrCodeSchema,
			Message: err.Error(),
			Details: schemaErr.Violations,
		}
	}
	return &CLIError{Code: ErrCodeDecode, Message: err.Error()}
}

func validationDetails(ve *graph.ValidationError) any {
	details := map[string]any{}
	if ve.OrderID != "" {
		details["order_id"] = ve.OrderID
	}
	if ve.ItemID != "" {
		details["item_id"] = ve.ItemID
	}
	if ve.TargetID != "" {
		details["target_id"] = ve.TargetID
	}
	if ve.Kind == graph.KindGraphTooComplex {
		details["steps"] = ve.Steps
		details["limit"] = ve.Limit
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// Fail outputs a CLIError in the configured format.
func (f *OutputFormatter) Fail(e *CLIError) error {
	return f.Error(e.Code, e.Message, e.Details)
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
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

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Encode writes v as indented JSON.
func (f *OutputFormatter) Encode(v any) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
