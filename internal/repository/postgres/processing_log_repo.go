package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nfextract/internal/domain"
	"nfextract/internal/port"
)

type processingLogRepo struct {
	db *sqlx.DB
}

// NewProcessingLogRepo creates a new PostgreSQL-backed ProcessingLogRepository.
func NewProcessingLogRepo(db *sqlx.DB) port.ProcessingLogRepository {
	return &processingLogRepo{db: db}
}

func (r *processingLogRepo) Create(ctx context.Context, entry *domain.ProcessingLog) error {
	query := `INSERT INTO processing_logs (id, status, access_key, file_name, message, created_at)
		VALUES (:id, :status, :access_key, :file_name, :message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("processingLogRepo.Create: %w", err)
	}
	return nil
}

// List returns entries newest first.
func (r *processingLogRepo) List(ctx context.Context, offset, limit int) ([]domain.ProcessingLog, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM processing_logs"); err != nil {
		return nil, 0, fmt.Errorf("processingLogRepo.List count: %w", err)
	}

	var entries []domain.ProcessingLog
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM processing_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("processingLogRepo.List: %w", err)
	}
	return entries, total, nil
}
