package repository

import (
	"context"

	"cctvapi/internal/model"
)

// VideoRepository defines data access for videos using SQL queries only.
// No business logic here, strictly persistence operations.
type VideoRepository interface {
	// Create inserts a new video record and returns the stored row
	// (may include values set by database defaults).
	Create(ctx context.Context, v *model.Video) (*model.Video, error)

	// FindByID returns a video by its ID.
	FindByID(ctx context.Context, id string) (*model.Video, error)

	// List returns a paginated list of videos and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Video], error)

	// Delete removes a video by ID. Screenshot rows go with it via
	// ON DELETE CASCADE. Returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}
