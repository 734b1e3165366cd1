package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"nfextract/internal/domain"
	"nfextract/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

// Upsert inserts the record or replaces the one stored under the same access
// key. The original id and created_at survive a replace.
func (r *documentRepo) Upsert(ctx context.Context, doc *domain.StoredDocument) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, access_key, shape, number, issuer_tax_id, total, record, source_key, created_at, updated_at
	) VALUES (
		:id, :access_key, :shape, :number, :issuer_tax_id, :total, :record, :source_key, :created_at, :updated_at
	)
	ON CONFLICT (access_key) DO UPDATE SET
		shape = EXCLUDED.shape,
		number = EXCLUDED.number,
		issuer_tax_id = EXCLUDED.issuer_tax_id,
		total = EXCLUDED.total,
		record = EXCLUDED.record,
		source_key = EXCLUDED.source_key,
		updated_at = EXCLUDED.updated_at
	RETURNING id, created_at`

	rows, err := r.db.NamedQueryContext(ctx, query, doc)
	if err != nil {
		return fmt.Errorf("documentRepo.Upsert: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&doc.ID, &doc.CreatedAt); err != nil {
			return fmt.Errorf("documentRepo.Upsert scan: %w", err)
		}
	}
	return rows.Err()
}

func (r *documentRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.StoredDocument, error) {
	var doc domain.StoredDocument
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE access_key = $1", accessKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByAccessKey: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents"); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	var docs []domain.StoredDocument
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}
