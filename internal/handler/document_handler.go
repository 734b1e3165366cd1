package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nfextract/internal/accesskey"
	"nfextract/internal/domain"
	"nfextract/internal/service"
	"nfextract/internal/validator"
)

// DocumentHandler handles extraction and stored-record endpoints.
type DocumentHandler struct {
	errorHandler
	extraction   service.ExtractionService
	batch        service.BatchService
	maxFileBytes int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(
	extraction service.ExtractionService,
	batch service.BatchService,
	maxFileBytes int64,
	log *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		errorHandler: newErrorHandler(log),
		extraction:   extraction,
		batch:        batch,
		maxFileBytes: maxFileBytes,
	}
}

// ExtractResponse is the body of a successful extraction.
type ExtractResponse struct {
	Record       *domain.FiscalDocument `json:"record"`
	Validation   *validator.Report      `json:"validation,omitempty"`
	BarcodeImage string                 `json:"barcodeImage,omitempty"`
	Warning      string                 `json:"warning,omitempty"`
}

// BatchFileResult is the outcome of one file of a batch upload.
type BatchFileResult struct {
	FileName string           `json:"file_name"`
	Success  bool             `json:"success"`
	Data     *ExtractResponse `json:"data,omitempty"`
	Error    *APIError        `json:"error,omitempty"`
}

func toExtractResponse(res *service.ExtractionResult, withArtifact bool) *ExtractResponse {
	out := &ExtractResponse{Record: res.Record, Validation: res.Validation}
	if !withArtifact {
		return out
	}
	if res.ArtifactErr != nil {
		out.Warning = "record extracted but barcode generation failed: " + res.ArtifactErr.Error()
		return out
	}
	if len(res.Artifact) > 0 {
		out.BarcodeImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString(res.Artifact)
	}
	return out
}

// Extract handles POST /api/v1/documents/extract
// @Summary Extract a fiscal document
// @Description Extract the normalized record from one NFe, CFe or CTe XML. The body is the raw XML;
// @Description a multipart "file" field is accepted too.
// @Tags documents
// @Accept application/xml
// @Produce json
// @Param barcode query bool false "Add the access-key barcode as a PNG data URL" default(false)
// @Success 200 {object} Response{data=ExtractResponse} "Extracted record"
// @Failure 400 {object} ErrorResponseBody "Missing body or malformed XML"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Not a fiscal document"
// @Router /documents/extract [post]
func (h *DocumentHandler) Extract(c *gin.Context) {
	fileName := "body.xml"
	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
			return
		}
		defer func() { _ = file.Close() }()
		fileName = header.Filename
		raw, err = readLimited(file, h.maxFileBytes)
		if err == nil && h.maxFileBytes > 0 && int64(len(raw)) > h.maxFileBytes {
			err = domain.ErrFileTooLarge
		}
	} else {
		if ct := c.ContentType(); ct != "" {
			if _, ok := domain.AllowedContentTypes[ct]; !ok {
				h.HandleError(c, domain.ErrUnsupportedFileType)
				return
			}
		}
		raw, err = readBody(c, h.maxFileBytes)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(raw) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_BODY", "request body is required")
		return
	}

	withBarcode := c.Query("barcode") == "true"
	input := &service.ExtractInput{FileName: fileName, Raw: raw}

	var res *service.ExtractionResult
	if withBarcode {
		res, err = h.extraction.ExtractWithArtifact(c.Request.Context(), input)
	} else {
		res, err = h.extraction.Extract(c.Request.Context(), input)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, toExtractResponse(res, withBarcode))
}

// Batch handles POST /api/v1/documents/batch
// @Summary Extract many fiscal documents
// @Description Extract every XML in files[]. One failing file never fails the batch.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param files[] formData file true "XML files (max 100, 10MB each)"
// @Param barcode query bool false "Add barcode images" default(false)
// @Success 200 {object} Response{data=[]BatchFileResult} "Per-file results"
// @Failure 400 {object} ErrorResponseBody "No files or too many files"
// @Router /documents/batch [post]
func (h *DocumentHandler) Batch(c *gin.Context) {
	files, rejected, err := readUploads(c, h.maxFileBytes)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "multipart files[] field is required")
		return
	}
	if len(files)+len(rejected) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "at least one file is required")
		return
	}

	withBarcode := c.Query("barcode") == "true"
	items, err := h.batch.Process(c.Request.Context(), files, withBarcode)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	results := make([]BatchFileResult, 0, len(items)+len(rejected))
	for _, it := range items {
		results = append(results, batchFileResult(it.FileName, it.Result, it.Err, withBarcode))
	}
	for _, r := range rejected {
		results = append(results, batchFileResult(r.name, nil, r.err, false))
	}

	RespondOK(c, results)
}

func batchFileResult(name string, res *service.ExtractionResult, err error, withBarcode bool) BatchFileResult {
	if err != nil {
		_, code, msg := MapDomainError(err)
		return BatchFileResult{FileName: name, Error: &APIError{Code: code, Message: msg}}
	}
	return BatchFileResult{FileName: name, Success: true, Data: toExtractResponse(res, withBarcode)}
}

// Get handles GET /api/v1/documents/:key
// @Summary Get a stored record
// @Description Get a previously extracted record by access key
// @Tags documents
// @Produce json
// @Param key path string true "Access key (44 digits)"
// @Success 200 {object} Response{data=domain.FiscalDocument} "Stored record"
// @Failure 400 {object} ErrorResponseBody "Invalid access key"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 503 {object} ErrorResponseBody "Persistence disabled"
// @Router /documents/{key} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	key := c.Param("key")
	if err := accesskey.Validate(key); err != nil {
		h.HandleError(c, fmt.Errorf("%w: %v", domain.ErrInvalidAccessKey, err))
		return
	}

	doc, err := h.extraction.GetByAccessKey(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// List handles GET /api/v1/documents
// @Summary List stored records
// @Description Newest first
// @Tags documents
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.StoredDocument,meta=PagMeta} "Stored records"
// @Failure 503 {object} ErrorResponseBody "Persistence disabled"
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	docs, total, err := h.extraction.List(c.Request.Context(), offset, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Barcode handles GET /api/v1/documents/:key/barcode
// @Summary Render the access-key barcode
// @Tags documents
// @Produce png
// @Param key path string true "Access key (44 digits)"
// @Success 200 {file} binary "PNG image"
// @Failure 400 {object} ErrorResponseBody "Invalid access key"
// @Failure 500 {object} ErrorResponseBody "Barcode generation failed"
// @Router /documents/{key}/barcode [get]
func (h *DocumentHandler) Barcode(c *gin.Context) {
	data, contentType, err := h.extraction.Artifact(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
