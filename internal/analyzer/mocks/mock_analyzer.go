package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Describe(ctx context.Context, image []byte, mimeType string) (string, error) {
	args := m.Called(ctx, image, mimeType)
	return args.String(0), args.Error(1)
}
