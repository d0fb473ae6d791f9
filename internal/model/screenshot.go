package model

import "time"

// Screenshot is a still frame extracted from a video at a fixed offset.
// Analysis holds the cached AI description once the frame has been analyzed;
// it is nil until then and written exactly once.
type Screenshot struct {
	ID            string     `json:"id"`
	VideoID       string     `json:"video_id"`
	OffsetSeconds float64    `json:"offset_seconds"`
	StoragePath   string     `json:"storage_path"`
	Analysis      *string    `json:"analysis,omitempty"`
	AnalyzedAt    *time.Time `json:"analyzed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// HasAnalysis reports whether a cached analysis is attached.
func (s *Screenshot) HasAnalysis() bool {
	return s.Analysis != nil
}
