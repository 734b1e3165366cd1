package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockArtifactGenerator is a mock implementation of port.ArtifactGenerator.
type MockArtifactGenerator struct {
	mock.Mock
}

func (m *MockArtifactGenerator) Generate(ctx context.Context, accessKey string) ([]byte, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockArtifactGenerator) ContentType() string {
	args := m.Called()
	return args.String(0)
}
