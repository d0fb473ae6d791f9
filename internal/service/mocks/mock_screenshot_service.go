package mocks

import (
	"context"
	"time"

	"cctvapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockScreenshotService struct {
	mock.Mock
}

func (m *MockScreenshotService) Analyze(ctx context.Context, id string) (*model.Screenshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Screenshot), args.Error(1)
}

func (m *MockScreenshotService) Analysis(ctx context.Context, id string) (*model.Screenshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Screenshot), args.Error(1)
}

func (m *MockScreenshotService) PresignURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}
