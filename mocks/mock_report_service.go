package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nfextract/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Export(ctx context.Context, input *service.ExportInput) (*service.ExportOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportOutput), args.Error(1)
}
