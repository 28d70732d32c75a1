package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/nbcell/internal/display"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Evaluation or scenario failure
	ExitCommandError = 2 // Command error (bad paths, invalid config, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool
}

// Records writes one cell's display records in the configured format.
//
// In JSON mode the records are emitted structurally. In text mode,
// PlainText payloads print verbatim and HTML payloads print as terminal
// text: line-break markup becomes newlines and remaining tags are
// stripped.
func (f *OutputFormatter) Records(records []display.Record) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(records)
	}

	for _, r := range records {
		switch r.Kind {
		case display.PlainText:
			fmt.Fprint(f.Writer, r.Payload)
			if !strings.HasSuffix(r.Payload, "\n") && r.Payload != "" {
				fmt.Fprintln(f.Writer)
			}
		case display.HTML:
			fmt.Fprintln(f.Writer, stripMarkup(r.Payload))
		}
	}
	return nil
}

// Errorf writes an error line in the configured format.
func (f *OutputFormatter) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if f.Format == "json" {
		json.NewEncoder(f.Writer).Encode(map[string]string{"error": msg})
		return
	}
	fmt.Fprintln(f.Writer, "error:", msg)
}

// stripMarkup renders an HTML payload for a plain terminal: break tags
// become newlines, all other tags are dropped.
func stripMarkup(s string) string {
	s = strings.ReplaceAll(s, "<br/>", "\n")
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
