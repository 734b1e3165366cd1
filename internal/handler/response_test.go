package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"nfextract/internal/domain"
	"nfextract/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{&domain.MalformedInputError{}, http.StatusBadRequest, "INVALID_XML"},
		{&domain.StructureError{}, http.StatusUnprocessableEntity, "UNSUPPORTED_DOCUMENT"},
		{&domain.MissingAccessKeyError{}, http.StatusUnprocessableEntity, "ACCESS_KEY_NOT_FOUND"},
		{&domain.ArtifactGenerationError{Artifact: "barcode", Err: errors.New("x")}, http.StatusInternalServerError, "ARTIFACT_GENERATION_FAILED"},
		{fmt.Errorf("%w: bad digit", domain.ErrInvalidAccessKey), http.StatusBadRequest, "INVALID_ACCESS_KEY"},
		{fmt.Errorf("a.txt: %w", domain.ErrUnsupportedFileType), http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{fmt.Errorf("big.xml: %w", domain.ErrFileTooLarge), http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrTooManyFiles, http.StatusBadRequest, "TOO_MANY_FILES"},
		{domain.ErrDocumentNotFound, http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUnknownReportModel, http.StatusBadRequest, "UNKNOWN_REPORT_MODEL"},
		{domain.ErrUnknownReportColumn, http.StatusBadRequest, "UNKNOWN_REPORT_COLUMN"},
		{domain.ErrUnknownExportFormat, http.StatusBadRequest, "UNKNOWN_EXPORT_FORMAT"},
		{domain.ErrDatabaseDisabled, http.StatusServiceUnavailable, "DATABASE_DISABLED"},
		{domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{errors.New("anything else"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMapDomainError_WrappedExtractionError(t *testing.T) {
	err := fmt.Errorf("extracting nota.xml: %w", &domain.StructureError{Root: "html"})
	status, code, _ := handler.MapDomainError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "UNSUPPORTED_DOCUMENT", code)
}
