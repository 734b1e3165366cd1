package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nfextract/internal/domain"
	"nfextract/internal/report"
	"nfextract/internal/service"
)

// ReportHandler handles tabular report export.
type ReportHandler struct {
	errorHandler
	reports      service.ReportService
	maxFileBytes int64
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports service.ReportService, maxFileBytes int64, log *zap.Logger) *ReportHandler {
	return &ReportHandler{errorHandler: newErrorHandler(log), reports: reports, maxFileBytes: maxFileBytes}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Export handles POST /api/v1/reports/export
// @Summary Export a report
// @Description Flatten uploaded XMLs and/or stored records into a CSV or XLSX report.
// @Description Files that fail extraction are skipped and counted in X-Skipped-Files.
// @Tags reports
// @Accept multipart/form-data
// @Produce octet-stream
// @Param format query string false "csv or xlsx" default(csv)
// @Param model query string false "parties, products or icms" default(parties)
// @Param columns query string false "Comma-separated column keys; model defaults when empty"
// @Param search query string false "Case-insensitive filter over every cell"
// @Param files[] formData file false "XML files"
// @Param access_keys formData string false "Comma-separated stored access keys"
// @Success 200 {file} binary "Report file"
// @Failure 400 {object} ErrorResponseBody "Unknown model, column or format"
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	input := &service.ExportInput{
		Model:  domain.ReportModel(c.DefaultQuery("model", string(domain.ReportModelParties))),
		Format: domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportFormatCSV)))),
		Options: report.Options{
			Columns: splitList(c.Query("columns")),
			Search:  c.Query("search"),
		},
	}

	skipped := 0
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		files, rejected, err := readUploads(c, h.maxFileBytes)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FORM", "could not read multipart form")
			return
		}
		input.Files = files
		input.AccessKeys = splitList(c.PostForm("access_keys"))
		skipped += len(rejected)
	}
	if len(input.Files) == 0 && len(input.AccessKeys) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "files[] or access_keys is required")
		return
	}

	out, err := h.reports.Export(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	skipped += len(out.Skipped)

	c.Header("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	c.Header("X-Report-Rows", strconv.Itoa(out.Rows))
	c.Header("X-Skipped-Files", strconv.Itoa(skipped))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
