package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nfextract/internal/barcode"
	"nfextract/internal/config"
	"nfextract/internal/extractor"
	"nfextract/internal/handler"
	"nfextract/internal/logger"
	"nfextract/internal/repository/postgres"
	"nfextract/internal/router"
	"nfextract/internal/service"
	s3storage "nfextract/internal/storage/s3"
	"nfextract/internal/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := service.ExtractionDeps{
		Artifacts: barcode.NewGenerator(cfg.Barcode.Width, cfg.Barcode.Height),
	}
	logSvc := service.NewLogService(nil)
	var healthH *handler.HealthHandler

	// Persistence is optional; without it the processing log and stored
	// records are unavailable.
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		deps.DocRepo = postgres.NewDocumentRepo(db)
		deps.LogRepo = postgres.NewProcessingLogRepo(db)
		logSvc = service.NewLogService(deps.LogRepo)
		healthH = handler.NewHealthHandler(db)
	} else {
		log.Info("database disabled; running without persistence")
		healthH = handler.NewHealthHandler(nil)
	}

	if cfg.S3.ArchiveEnabled {
		s3Client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		deps.Storage = s3Client
		deps.Bucket = cfg.S3.Bucket
	}

	// Initialize services
	engine := validator.NewEngine(validator.NewDefaultRegistry(), log.Named("validator"))
	extractionSvc := service.NewExtractionService(extractor.New(), engine, deps, log.Named("extraction"))
	batchSvc := service.NewBatchService(extractionSvc, service.BatchLimits{
		Concurrency:  cfg.Batch.Concurrency,
		MaxFiles:     cfg.Batch.MaxFiles,
		MaxFileBytes: cfg.Batch.MaxFileSizeBytes(),
	}, log.Named("batch"))
	reportSvc := service.NewReportService(batchSvc, extractionSvc, log.Named("report"))

	// Initialize handlers
	documentH := handler.NewDocumentHandler(extractionSvc, batchSvc, cfg.Batch.MaxFileSizeBytes(), log)
	reportH := handler.NewReportHandler(reportSvc, cfg.Batch.MaxFileSizeBytes(), log)
	logH := handler.NewLogHandler(logSvc, log)

	r := router.Setup(log.Named("http"), cfg.CORS.AllowedOrigins, documentH, reportH, logH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
	}
	return nil
}
