package service

import (
	"context"

	"nfextract/internal/domain"
	"nfextract/internal/port"
)

// LogService reads the processing log.
type LogService interface {
	List(ctx context.Context, offset, limit int) ([]domain.ProcessingLog, int, error)
}

type logService struct {
	repo port.ProcessingLogRepository
}

// NewLogService creates a new LogService. A nil repo reports ErrDatabaseDisabled.
func NewLogService(repo port.ProcessingLogRepository) LogService {
	return &logService{repo: repo}
}

func (s *logService) List(ctx context.Context, offset, limit int) ([]domain.ProcessingLog, int, error) {
	if s.repo == nil {
		return nil, 0, domain.ErrDatabaseDisabled
	}
	return s.repo.List(ctx, offset, limit)
}
