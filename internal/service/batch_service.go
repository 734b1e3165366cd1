package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nfextract/internal/domain"
)

// BatchFile is one file of a batch upload.
type BatchFile struct {
	Name string
	Raw  []byte
}

// BatchItemResult is the outcome of one file; exactly one of Result and Err is set.
type BatchItemResult struct {
	FileName string
	Result   *ExtractionResult
	Err      error
}

// BatchLimits bounds a batch.
type BatchLimits struct {
	Concurrency  int
	MaxFiles     int
	MaxFileBytes int64
}

// BatchService extracts many documents concurrently.
type BatchService interface {
	Process(ctx context.Context, files []BatchFile, withArtifact bool) ([]BatchItemResult, error)
}

type batchService struct {
	extraction ExtractionService
	limits     BatchLimits
	log        *zap.Logger
}

// NewBatchService creates a new BatchService implementation.
func NewBatchService(extraction ExtractionService, limits BatchLimits, log *zap.Logger) BatchService {
	if limits.Concurrency < 1 {
		limits.Concurrency = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &batchService{extraction: extraction, limits: limits, log: log}
}

// Process runs every file through the extraction service. Results keep the
// input order. One failing file never stops the others; cancelling ctx stops
// scheduling new files and returns ctx.Err after in-flight files finish.
func (s *batchService) Process(ctx context.Context, files []BatchFile, withArtifact bool) ([]BatchItemResult, error) {
	if s.limits.MaxFiles > 0 && len(files) > s.limits.MaxFiles {
		return nil, fmt.Errorf("%w: %d files, limit is %d", domain.ErrTooManyFiles, len(files), s.limits.MaxFiles)
	}

	batchID := uuid.New()
	results := make([]BatchItemResult, len(files))
	var g errgroup.Group
	g.SetLimit(s.limits.Concurrency)

	for i := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = s.processOne(ctx, files[i], withArtifact)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.log.Info("batch processed",
		zap.String("batch_id", batchID.String()),
		zap.Int("files", len(files)),
		zap.Int("failed", failed),
	)
	return results, nil
}

func (s *batchService) processOne(ctx context.Context, f BatchFile, withArtifact bool) BatchItemResult {
	item := BatchItemResult{FileName: f.Name}
	if s.limits.MaxFileBytes > 0 && int64(len(f.Raw)) > s.limits.MaxFileBytes {
		item.Err = fmt.Errorf("%s: %w", f.Name, domain.ErrFileTooLarge)
		return item
	}

	input := &ExtractInput{FileName: f.Name, Raw: f.Raw}
	if withArtifact {
		item.Result, item.Err = s.extraction.ExtractWithArtifact(ctx, input)
	} else {
		item.Result, item.Err = s.extraction.Extract(ctx, input)
	}
	return item
}
