package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cctvapi/internal/config"
	"cctvapi/internal/extractor"
	extractorMocks "cctvapi/internal/extractor/mocks"
	"cctvapi/internal/model"
	"cctvapi/internal/repository"
	repoMocks "cctvapi/internal/repository/mocks"
	"cctvapi/internal/storage"
	storeMocks "cctvapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testUploadConfig(t *testing.T) config.UploadConfig {
	t.Helper()
	return config.UploadConfig{
		TempDir:               t.TempDir(),
		ScreenshotIntervalSec: 5,
		MaxUploadMB:           50,
		AllowedExtensions:     []string{".mp4", ".avi", ".mov", ".wmv", ".mkv"},
	}
}

// writeFakeFrames creates frame files on disk so the service can stat and open them.
func writeFakeFrames(t *testing.T, n int, intervalSec float64) *extractor.Result {
	t.Helper()
	dir := t.TempDir()
	frames := make([]extractor.Frame, 0, n)
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("frame_%05d.jpg", i))
		require.NoError(t, os.WriteFile(p, []byte("jpeg-data"), 0o644))
		frames = append(frames, extractor.Frame{Path: p, OffsetSeconds: float64(i) * intervalSec})
	}
	return &extractor.Result{Frames: frames, DurationSeconds: float64(n) * intervalSec}
}

func TestVideoService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mVideos := new(repoMocks.MockVideoRepository)
		mShots := new(repoMocks.MockScreenshotRepository)
		mExtract := new(extractorMocks.MockExtractor)
		svc := NewVideoService(mStore, mVideos, mShots, mExtract, testUploadConfig(t))

		result := writeFakeFrames(t, 3, 5)
		mExtract.On("Extract", ctx, mock.MatchedBy(func(p string) bool {
			return strings.HasSuffix(p, "input.mp4")
		}), mock.Anything, 5.0).Return(result, nil)

		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "videos/") && strings.HasSuffix(key, ".mp4")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil).Once()
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "screenshots/") && strings.HasSuffix(key, ".jpg")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil).Times(3)

		mVideos.On("Create", ctx, mock.MatchedBy(func(v *model.Video) bool {
			return v.OriginalFilename == "lobby.mp4" &&
				v.DurationSeconds == 15.0 &&
				strings.HasPrefix(v.StoragePath, "videos/")
		})).Return(&model.Video{ID: "vid-1", DurationSeconds: 15}, nil)

		mShots.On("Create", ctx, mock.MatchedBy(func(s *model.Screenshot) bool {
			return strings.HasPrefix(s.StoragePath, "screenshots/")
		})).Return(&model.Screenshot{ID: "shot"}, nil).Times(3)

		out, err := svc.Upload(ctx, strings.NewReader("video-bytes"), "lobby.mp4", "video/mp4", 11)

		assert.NoError(t, err)
		require.NotNil(t, out)
		assert.Equal(t, "vid-1", out.Video.ID)
		assert.Len(t, out.Screenshots, 3)

		mStore.AssertExpectations(t)
		mVideos.AssertExpectations(t)
		mShots.AssertExpectations(t)
		mExtract.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		svc := NewVideoService(nil, nil, nil, nil, testUploadConfig(t))

		out, err := svc.Upload(ctx, nil, "lobby.mp4", "video/mp4", 0)

		assert.ErrorIs(t, err, ErrReaderNil)
		assert.Nil(t, out)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		svc := NewVideoService(nil, nil, nil, nil, testUploadConfig(t))

		out, err := svc.Upload(ctx, strings.NewReader("x"), "notes.txt", "text/plain", 1)

		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.Nil(t, out)
	})

	t.Run("extractor error", func(t *testing.T) {
		mExtract := new(extractorMocks.MockExtractor)
		mExtract.On("Extract", ctx, mock.Anything, mock.Anything, 5.0).
			Return(nil, errors.New("ffmpeg exploded"))
		svc := NewVideoService(nil, nil, nil, mExtract, testUploadConfig(t))

		out, err := svc.Upload(ctx, strings.NewReader("x"), "cam.mkv", "video/x-matroska", 1)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "extract frames")
		assert.Nil(t, out)
	})

	t.Run("storage error on video upload", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mExtract := new(extractorMocks.MockExtractor)
		mExtract.On("Extract", ctx, mock.Anything, mock.Anything, 5.0).
			Return(writeFakeFrames(t, 1, 5), nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))
		svc := NewVideoService(mStore, nil, nil, mExtract, testUploadConfig(t))

		out, err := svc.Upload(ctx, strings.NewReader("x"), "cam.mp4", "video/mp4", 1)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "upload video to storage")
		assert.Nil(t, out)
	})

	t.Run("video create failure rolls back storage", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mVideos := new(repoMocks.MockVideoRepository)
		mExtract := new(extractorMocks.MockExtractor)
		mExtract.On("Extract", ctx, mock.Anything, mock.Anything, 5.0).
			Return(writeFakeFrames(t, 2, 5), nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil).Times(3)
		mVideos.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		// Video object plus both frames are removed.
		mStore.On("Delete", ctx, mock.Anything).Return(nil).Times(3)
		svc := NewVideoService(mStore, mVideos, nil, mExtract, testUploadConfig(t))

		out, err := svc.Upload(ctx, strings.NewReader("x"), "cam.mp4", "video/mp4", 1)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db save failed")
		assert.Nil(t, out)
		mStore.AssertExpectations(t)
	})

	t.Run("screenshot create failure rolls back storage and video row", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mVideos := new(repoMocks.MockVideoRepository)
		mShots := new(repoMocks.MockScreenshotRepository)
		mExtract := new(extractorMocks.MockExtractor)
		mExtract.On("Extract", ctx, mock.Anything, mock.Anything, 5.0).
			Return(writeFakeFrames(t, 1, 5), nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil).Times(2)
		mVideos.On("Create", ctx, mock.Anything).Return(&model.Video{ID: "vid-1"}, nil)
		mShots.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(nil).Times(2)
		mVideos.On("Delete", ctx, mock.Anything).Return(nil)
		svc := NewVideoService(mStore, mVideos, mShots, mExtract, testUploadConfig(t))

		out, err := svc.Upload(ctx, strings.NewReader("x"), "cam.mp4", "video/mp4", 1)

		assert.Error(t, err)
		assert.Nil(t, out)
		mStore.AssertExpectations(t)
		mVideos.AssertExpectations(t)
	})
}

func TestVideoService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockVideoRepository)
		wantErr    bool
		wantTotal  int
	}{
		{
			name:   "happy path",
			limit:  10,
			offset: 0,
			setupMocks: func(mRepo *repoMocks.MockVideoRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Video]{
						Items: []model.Video{{ID: "vid-1"}},
						Total: 1,
					}, nil)
			},
			wantTotal: 1,
		},
		{
			name:   "defaults applied for invalid paging",
			limit:  0,
			offset: -5,
			setupMocks: func(mRepo *repoMocks.MockVideoRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Video]{Items: []model.Video{}, Total: 0}, nil)
			},
			wantTotal: 0,
		},
		{
			name:   "repository error",
			limit:  10,
			offset: 0,
			setupMocks: func(mRepo *repoMocks.MockVideoRepository) {
				mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockVideoRepository)
			tt.setupMocks(mRepo)
			svc := NewVideoService(nil, mRepo, nil, nil, config.UploadConfig{})

			res, err := svc.List(ctx, tt.limit, tt.offset)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, res.Total)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestVideoService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mRepo := new(repoMocks.MockVideoRepository)
		mRepo.On("FindByID", ctx, "vid-1").Return(&model.Video{ID: "vid-1"}, nil)
		svc := NewVideoService(nil, mRepo, nil, nil, config.UploadConfig{})

		v, err := svc.Get(ctx, "vid-1")

		assert.NoError(t, err)
		assert.Equal(t, "vid-1", v.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockVideoRepository)
		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
		svc := NewVideoService(nil, mRepo, nil, nil, config.UploadConfig{})

		v, err := svc.Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, v)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewVideoService(nil, nil, nil, nil, config.UploadConfig{})

		v, err := svc.Get(ctx, "")

		assert.ErrorIs(t, err, ErrIDRequired)
		assert.Nil(t, v)
	})
}

func TestVideoService_Screenshots(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mVideos := new(repoMocks.MockVideoRepository)
		mShots := new(repoMocks.MockScreenshotRepository)
		mVideos.On("FindByID", ctx, "vid-1").Return(&model.Video{ID: "vid-1"}, nil)
		mShots.On("ListByVideo", ctx, "vid-1").Return([]model.Screenshot{
			{ID: "shot-1", OffsetSeconds: 0},
			{ID: "shot-2", OffsetSeconds: 5},
		}, nil)
		svc := NewVideoService(nil, mVideos, mShots, nil, config.UploadConfig{})

		shots, err := svc.Screenshots(ctx, "vid-1")

		assert.NoError(t, err)
		assert.Len(t, shots, 2)
	})

	t.Run("video not found", func(t *testing.T) {
		mVideos := new(repoMocks.MockVideoRepository)
		mVideos.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
		svc := NewVideoService(nil, mVideos, nil, nil, config.UploadConfig{})

		shots, err := svc.Screenshots(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, shots)
	})
}

func TestVideoService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mVideos := new(repoMocks.MockVideoRepository)
		mShots := new(repoMocks.MockScreenshotRepository)
		mVideos.On("FindByID", ctx, "vid-1").
			Return(&model.Video{ID: "vid-1", StoragePath: "videos/vid-1.mp4"}, nil)
		mShots.On("ListByVideo", ctx, "vid-1").Return([]model.Screenshot{
			{ID: "shot-1", StoragePath: "screenshots/vid-1/00000.jpg"},
		}, nil)
		mStore.On("Delete", ctx, "screenshots/vid-1/00000.jpg").Return(nil)
		mStore.On("Delete", ctx, "videos/vid-1.mp4").Return(nil)
		mVideos.On("Delete", ctx, "vid-1").Return(nil)
		svc := NewVideoService(mStore, mVideos, mShots, nil, config.UploadConfig{})

		err := svc.Delete(ctx, "vid-1")

		assert.NoError(t, err)
		mStore.AssertExpectations(t)
		mVideos.AssertExpectations(t)
	})

	t.Run("storage failure keeps db rows", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mVideos := new(repoMocks.MockVideoRepository)
		mShots := new(repoMocks.MockScreenshotRepository)
		mVideos.On("FindByID", ctx, "vid-1").
			Return(&model.Video{ID: "vid-1", StoragePath: "videos/vid-1.mp4"}, nil)
		mShots.On("ListByVideo", ctx, "vid-1").Return([]model.Screenshot{}, nil)
		mStore.On("Delete", ctx, "videos/vid-1.mp4").Return(errors.New("storage down"))
		svc := NewVideoService(mStore, mVideos, mShots, nil, config.UploadConfig{})

		err := svc.Delete(ctx, "vid-1")

		assert.Error(t, err)
		mVideos.AssertNotCalled(t, "Delete", ctx, "vid-1")
	})

	t.Run("not found", func(t *testing.T) {
		mVideos := new(repoMocks.MockVideoRepository)
		mVideos.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
		svc := NewVideoService(nil, mVideos, nil, nil, config.UploadConfig{})

		err := svc.Delete(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}
