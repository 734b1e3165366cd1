package port

import (
	"context"

	"nfextract/internal/domain"
)

// DocumentRepository defines the contract for extracted record persistence.
type DocumentRepository interface {
	Upsert(ctx context.Context, doc *domain.StoredDocument) error
	GetByAccessKey(ctx context.Context, accessKey string) (*domain.StoredDocument, error)
	List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error)
}
