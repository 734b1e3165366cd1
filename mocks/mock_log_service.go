package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nfextract/internal/domain"
)

// MockLogService is a mock implementation of service.LogService.
type MockLogService struct {
	mock.Mock
}

func (m *MockLogService) List(ctx context.Context, offset, limit int) ([]domain.ProcessingLog, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ProcessingLog), args.Int(1), args.Error(2)
}
