package port

import (
	"context"

	"nfextract/internal/domain"
)

// ProcessingLogRepository defines the contract for processing log persistence.
type ProcessingLogRepository interface {
	Create(ctx context.Context, entry *domain.ProcessingLog) error
	List(ctx context.Context, offset, limit int) ([]domain.ProcessingLog, int, error)
}
