package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nfextract/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Process(ctx context.Context, files []service.BatchFile, withArtifact bool) ([]service.BatchItemResult, error) {
	args := m.Called(ctx, files, withArtifact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BatchItemResult), args.Error(1)
}
