package extractor

import "context"

// Frame is a single still image extracted from a video.
type Frame struct {
	// Path is the location of the frame image on local disk.
	Path string
	// OffsetSeconds is the position of the frame within the video.
	OffsetSeconds float64
}

// Result holds the outcome of a frame extraction run.
type Result struct {
	Frames          []Frame
	DurationSeconds float64
}

// Extractor extracts still frames from a video file at a fixed interval.
// Implementations write JPEG files into outDir; the caller owns the directory.
type Extractor interface {
	Extract(ctx context.Context, videoPath, outDir string, intervalSec float64) (*Result, error)
}
