package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nfextract/internal/domain"
	"nfextract/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Extract(ctx context.Context, input *service.ExtractInput) (*service.ExtractionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractionResult), args.Error(1)
}

func (m *MockExtractionService) ExtractWithArtifact(ctx context.Context, input *service.ExtractInput) (*service.ExtractionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractionResult), args.Error(1)
}

func (m *MockExtractionService) GetByAccessKey(ctx context.Context, accessKey string) (*domain.FiscalDocument, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalDocument), args.Error(1)
}

func (m *MockExtractionService) List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.StoredDocument), args.Int(1), args.Error(2)
}

func (m *MockExtractionService) Artifact(ctx context.Context, accessKey string) ([]byte, string, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
