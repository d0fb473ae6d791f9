package mocks

import (
	"context"

	"cctvapi/internal/extractor"
	"github.com/stretchr/testify/mock"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, videoPath, outDir string, intervalSec float64) (*extractor.Result, error) {
	args := m.Called(ctx, videoPath, outDir, intervalSec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extractor.Result), args.Error(1)
}
