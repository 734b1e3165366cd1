package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nfextract/internal/service"
)

// LogHandler exposes the processing log.
type LogHandler struct {
	errorHandler
	logs service.LogService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(logs service.LogService, log *zap.Logger) *LogHandler {
	return &LogHandler{errorHandler: newErrorHandler(log), logs: logs}
}

// List handles GET /api/v1/logs
// @Summary List the processing log
// @Description Newest entries first
// @Tags logs
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.ProcessingLog,meta=PagMeta} "Log entries"
// @Failure 503 {object} ErrorResponseBody "Persistence disabled"
// @Router /logs [get]
func (h *LogHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	entries, total, err := h.logs.List(c.Request.Context(), offset, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}
