package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nfextract/internal/domain"
)

// MockProcessingLogRepo is a mock implementation of port.ProcessingLogRepository.
type MockProcessingLogRepo struct {
	mock.Mock
}

func (m *MockProcessingLogRepo) Create(ctx context.Context, entry *domain.ProcessingLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockProcessingLogRepo) List(ctx context.Context, offset, limit int) ([]domain.ProcessingLog, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ProcessingLog), args.Int(1), args.Error(2)
}
