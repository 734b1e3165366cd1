package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "nfextract/docs"
	"nfextract/internal/handler"
	"nfextract/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log *zap.Logger,
	corsOrigins []string,
	documentH *handler.DocumentHandler,
	reportH *handler.ReportHandler,
	logH *handler.LogHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	documents := v1.Group("/documents")
	documents.GET("", documentH.List)
	documents.POST("/extract", documentH.Extract)
	documents.POST("/batch", documentH.Batch)
	documents.GET("/:key", documentH.Get)
	documents.GET("/:key/barcode", documentH.Barcode)

	v1.POST("/reports/export", reportH.Export)
	v1.GET("/logs", logH.List)

	return r
}
