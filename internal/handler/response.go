package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nfextract/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		return http.StatusBadRequest, "INVALID_XML", "input is not well-formed XML"
	case errors.Is(err, domain.ErrUnsupportedStructure):
		return http.StatusUnprocessableEntity, "UNSUPPORTED_DOCUMENT", "no NFe, CFe or CTe document found in the XML"
	case errors.Is(err, domain.ErrMissingAccessKey):
		return http.StatusUnprocessableEntity, "ACCESS_KEY_NOT_FOUND", "access key not found in the document"
	case errors.Is(err, domain.ErrArtifactGeneration):
		return http.StatusInternalServerError, "ARTIFACT_GENERATION_FAILED", "barcode generation failed"
	case errors.Is(err, domain.ErrInvalidAccessKey):
		return http.StatusBadRequest, "INVALID_ACCESS_KEY", "access key must be 44 digits with a valid check digit"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: xml"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrTooManyFiles):
		return http.StatusBadRequest, "TOO_MANY_FILES", "too many files in batch"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnknownReportModel):
		return http.StatusBadRequest, "UNKNOWN_REPORT_MODEL", "unknown report model; allowed: parties, products, icms"
	case errors.Is(err, domain.ErrUnknownReportColumn):
		return http.StatusBadRequest, "UNKNOWN_REPORT_COLUMN", "unknown report column for this model"
	case errors.Is(err, domain.ErrUnknownExportFormat):
		return http.StatusBadRequest, "UNKNOWN_EXPORT_FORMAT", "unknown export format; allowed: csv, xlsx"
	case errors.Is(err, domain.ErrDatabaseDisabled):
		return http.StatusServiceUnavailable, "DATABASE_DISABLED", "persistence is not configured"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// errorHandler maps domain errors to responses and logs server-side failures.
type errorHandler struct {
	log *zap.Logger
}

func newErrorHandler(log *zap.Logger) errorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return errorHandler{log: log}
}

// HandleError maps a domain error and sends the appropriate error response.
func (h errorHandler) HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		h.log.Error("internal error",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	RespondError(c, status, code, msg)
}
