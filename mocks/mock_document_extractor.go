package mocks

import (
	"github.com/stretchr/testify/mock"

	"nfextract/internal/domain"
)

// MockDocumentExtractor is a mock implementation of port.DocumentExtractor.
type MockDocumentExtractor struct {
	mock.Mock
}

func (m *MockDocumentExtractor) Extract(raw []byte) (*domain.FiscalDocument, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalDocument), args.Error(1)
}
