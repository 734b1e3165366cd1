package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"nfextract/internal/domain"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // all files extracted
	ExitFailure      = 1 // at least one file failed
	ExitCommandError = 2 // bad arguments or unreadable input
)

// ExitError carries the process exit code of a failed command.
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

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Error kinds reported per file.
const (
	KindExtraction = "extraction"
	KindArtifact   = "artifact"
	KindOther      = "other"
)

// errorKind tells a document the engine rejected apart from a failed
// artifact or an environment problem (size limits, cancellation).
func errorKind(err error) string {
	switch {
	case domain.IsExtractionError(err):
		return KindExtraction
	case errors.Is(err, domain.ErrArtifactGeneration):
		return KindArtifact
	default:
		return KindOther
	}
}
