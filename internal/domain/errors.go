package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrMalformedInput       = errors.New("malformed xml input")
	ErrUnsupportedStructure = errors.New("unsupported fiscal document structure")
	ErrMissingAccessKey     = errors.New("access key not found")
	ErrInvalidAccessKey     = errors.New("invalid access key")
	ErrArtifactGeneration   = errors.New("artifact generation failed")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrTooManyFiles         = errors.New("too many files in batch")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrUnknownReportModel   = errors.New("unknown report model")
	ErrUnknownReportColumn  = errors.New("unknown report column")
	ErrUnknownExportFormat  = errors.New("unknown export format")
	ErrDatabaseDisabled     = errors.New("persistence is not configured")
	ErrUploadFailed         = errors.New("file upload to storage failed")
)

// MalformedInputError is returned when the input is not well-formed XML.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	if e.Err == nil {
		return ErrMalformedInput.Error()
	}
	return fmt.Sprintf("%s: %v", ErrMalformedInput, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// StructureError is returned when no fiscal-document root marker exists in
// an otherwise well-formed XML tree.
type StructureError struct {
	Root string
}

func (e *StructureError) Error() string {
	if e.Root == "" {
		return ErrUnsupportedStructure.Error()
	}
	return fmt.Sprintf("%s: root element <%s> is not a fiscal document", ErrUnsupportedStructure, e.Root)
}

func (e *StructureError) Is(target error) bool { return target == ErrUnsupportedStructure }

// MissingAccessKeyError is returned by the access-key resolver when every
// source (protocol, identification section, info node Id) is empty.
type MissingAccessKeyError struct{}

func (e *MissingAccessKeyError) Error() string { return ErrMissingAccessKey.Error() }

func (e *MissingAccessKeyError) Is(target error) bool { return target == ErrMissingAccessKey }

// ArtifactGenerationError wraps failures of a derived artifact (barcode image).
// It is kept apart from the extraction errors above.
type ArtifactGenerationError struct {
	Artifact string
	Err      error
}

func (e *ArtifactGenerationError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrArtifactGeneration, e.Artifact, e.Err)
}

func (e *ArtifactGenerationError) Unwrap() error { return e.Err }

func (e *ArtifactGenerationError) Is(target error) bool { return target == ErrArtifactGeneration }

// IsExtractionError reports whether err came from the extraction core.
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrUnsupportedStructure) ||
		errors.Is(err, ErrMissingAccessKey)
}
