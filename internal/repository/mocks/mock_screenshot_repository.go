package mocks

import (
	"context"
	"time"

	"cctvapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockScreenshotRepository struct {
	mock.Mock
}

func (m *MockScreenshotRepository) Create(ctx context.Context, s *model.Screenshot) (*model.Screenshot, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Screenshot), args.Error(1)
}

func (m *MockScreenshotRepository) FindByID(ctx context.Context, id string) (*model.Screenshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Screenshot), args.Error(1)
}

func (m *MockScreenshotRepository) ListByVideo(ctx context.Context, videoID string) ([]model.Screenshot, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Screenshot), args.Error(1)
}

func (m *MockScreenshotRepository) SetAnalysis(ctx context.Context, id string, text string, analyzedAt time.Time) (*model.Screenshot, error) {
	args := m.Called(ctx, id, text, analyzedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Screenshot), args.Error(1)
}
