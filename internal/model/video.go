package model

import "time"

// Video represents an uploaded footage file.
// Pure domain model, no database-specific dependencies or tags; it is shared
// across the HTTP, service and storage layers without coupling to persistence.
type Video struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	StoragePath      string    `json:"storage_path"`
	Size             int64     `json:"size"`
	ContentType      string    `json:"content_type"`
	DurationSeconds  float64   `json:"duration_seconds"`
	UploadedAt       time.Time `json:"uploaded_at"`
}
