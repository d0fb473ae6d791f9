package postgres

import (
	"context"
	"database/sql"
	"time"

	"cctvapi/internal/model"
	"cctvapi/internal/repository"
)

// ScreenshotPostgres is a PostgreSQL implementation of repository.ScreenshotRepository.
type ScreenshotPostgres struct {
	db *sql.DB
}

// NewScreenshotPostgres creates a new ScreenshotPostgres repository.
func NewScreenshotPostgres(db *sql.DB) *ScreenshotPostgres {
	return &ScreenshotPostgres{db: db}
}

var _ repository.ScreenshotRepository = (*ScreenshotPostgres)(nil)

const screenshotColumns = `id, video_id, offset_seconds, storage_path, analysis, analyzed_at, created_at`

func scanScreenshot(row interface{ Scan(...any) error }) (*model.Screenshot, error) {
	var s model.Screenshot
	if err := row.Scan(
		&s.ID,
		&s.VideoID,
		&s.OffsetSeconds,
		&s.StoragePath,
		&s.Analysis,
		&s.AnalyzedAt,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new screenshot row and returns the stored record.
func (r *ScreenshotPostgres) Create(ctx context.Context, s *model.Screenshot) (*model.Screenshot, error) {
	const q = `
		INSERT INTO screenshots (id, video_id, offset_seconds, storage_path, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + screenshotColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.VideoID,
		s.OffsetSeconds,
		s.StoragePath,
		s.CreatedAt,
	)
	return scanScreenshot(row)
}

// FindByID fetches a single screenshot by its ID.
func (r *ScreenshotPostgres) FindByID(ctx context.Context, id string) (*model.Screenshot, error) {
	const q = `
		SELECT ` + screenshotColumns + `
		FROM screenshots
		WHERE id = $1
	`
	return scanScreenshot(r.db.QueryRowContext(ctx, q, id))
}

// ListByVideo returns all screenshots of a video ordered by their offset.
func (r *ScreenshotPostgres) ListByVideo(ctx context.Context, videoID string) ([]model.Screenshot, error) {
	const q = `
		SELECT ` + screenshotColumns + `
		FROM screenshots
		WHERE video_id = $1
		ORDER BY offset_seconds ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Screenshot, 0)
	for rows.Next() {
		s, err := scanScreenshot(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetAnalysis stores the analysis text on a screenshot and returns the updated row.
func (r *ScreenshotPostgres) SetAnalysis(ctx context.Context, id string, text string, analyzedAt time.Time) (*model.Screenshot, error) {
	const q = `
		UPDATE screenshots
		SET analysis = $2, analyzed_at = $3
		WHERE id = $1
		RETURNING ` + screenshotColumns
	return scanScreenshot(r.db.QueryRowContext(ctx, q, id, text, analyzedAt))
}
