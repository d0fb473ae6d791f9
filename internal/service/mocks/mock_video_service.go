package mocks

import (
	"context"
	"io"

	"cctvapi/internal/model"
	"cctvapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*service.UploadResult, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockVideoService) List(ctx context.Context, limit, offset int) (*service.VideoListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VideoListResult), args.Error(1)
}

func (m *MockVideoService) Get(ctx context.Context, id string) (*model.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoService) Screenshots(ctx context.Context, videoID string) ([]model.Screenshot, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Screenshot), args.Error(1)
}

func (m *MockVideoService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
