package port

import "nfextract/internal/domain"

// DocumentExtractor turns raw fiscal XML into a normalized record.
type DocumentExtractor interface {
	Extract(raw []byte) (*domain.FiscalDocument, error)
}
