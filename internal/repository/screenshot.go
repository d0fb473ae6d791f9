package repository

import (
	"context"
	"time"

	"cctvapi/internal/model"
)

// ScreenshotRepository defines data access for screenshots.
type ScreenshotRepository interface {
	// Create inserts a new screenshot record.
	Create(ctx context.Context, s *model.Screenshot) (*model.Screenshot, error)

	// FindByID returns a screenshot by its ID.
	FindByID(ctx context.Context, id string) (*model.Screenshot, error)

	// ListByVideo returns all screenshots of a video ordered by offset.
	ListByVideo(ctx context.Context, videoID string) ([]model.Screenshot, error)

	// SetAnalysis attaches the cached analysis text to a screenshot.
	// This is the only mutation a screenshot row ever receives.
	SetAnalysis(ctx context.Context, id string, text string, analyzedAt time.Time) (*model.Screenshot, error)
}
