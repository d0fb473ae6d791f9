package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"cctvapi/internal/analyzer"
	"cctvapi/internal/model"
	"cctvapi/internal/repository"
	"cctvapi/internal/storage"
)

var (
	ErrNoAnalysis = errors.New("screenshot has not been analyzed")
	ErrUpstream   = errors.New("analysis provider failed")
)

// DefaultPresignExpiry bounds how long a screenshot download URL stays valid.
const DefaultPresignExpiry = 15 * time.Minute

// ScreenshotService defines the use cases around individual screenshots.
type ScreenshotService interface {
	// Analyze returns the screenshot with its analysis attached. If a cached
	// analysis exists it is returned as-is and the provider is not called;
	// otherwise the frame is fetched from storage, described by the provider,
	// and the text is persisted before returning.
	Analyze(ctx context.Context, id string) (*model.Screenshot, error)

	// Analysis returns the screenshot only if a cached analysis exists,
	// ErrNoAnalysis otherwise.
	Analysis(ctx context.Context, id string) (*model.Screenshot, error)

	// PresignURL returns a time-limited download URL for the frame image.
	PresignURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}

// screenshotService is a concrete implementation of ScreenshotService.
type screenshotService struct {
	store    storage.Storage
	shots    repository.ScreenshotRepository
	describe analyzer.Analyzer
}

// NewScreenshotService constructs a new ScreenshotService.
func NewScreenshotService(store storage.Storage, shots repository.ScreenshotRepository, describe analyzer.Analyzer) ScreenshotService {
	return &screenshotService{store: store, shots: shots, describe: describe}
}

func (s *screenshotService) Analyze(ctx context.Context, id string) (*model.Screenshot, error) {
	shot, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if shot.HasAnalysis() {
		// Cached result; analysis text is written exactly once.
		return shot, nil
	}

	rc, info, err := s.store.Get(ctx, shot.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("fetch frame from storage: %w", err)
	}
	image, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}

	mimeType := info.ContentType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	text, err := s.describe.Describe(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	updated, err := s.shots.SetAnalysis(ctx, id, text, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}
	return updated, nil
}

func (s *screenshotService) Analysis(ctx context.Context, id string) (*model.Screenshot, error) {
	shot, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !shot.HasAnalysis() {
		return nil, ErrNoAnalysis
	}
	return shot, nil
}

func (s *screenshotService) PresignURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	shot, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, shot.StoragePath, expiry)
}

func (s *screenshotService) find(ctx context.Context, id string) (*model.Screenshot, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	shot, err := s.shots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return shot, nil
}
