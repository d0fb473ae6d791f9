package mocks

import (
	"context"

	"cctvapi/internal/model"
	"cctvapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, v *model.Video) (*model.Video, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepository) FindByID(ctx context.Context, id string) (*model.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Video], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Video]), args.Error(1)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
