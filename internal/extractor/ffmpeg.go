package extractor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"cctvapi/internal/config"
)

// FFmpeg extracts frames by shelling out to the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpeg creates an FFmpeg extractor from configuration.
func NewFFmpeg(cfg config.FFmpegConfig) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  cfg.FFmpegPath,
		ffprobePath: cfg.FFprobePath,
	}
}

var _ Extractor = (*FFmpeg)(nil)

// Extract samples one frame every intervalSec seconds into outDir as numbered
// JPEGs. Frame i (zero-based, in filename order) sits at offset i*intervalSec.
func (e *FFmpeg) Extract(ctx context.Context, videoPath, outDir string, intervalSec float64) (*Result, error) {
	if intervalSec <= 0 {
		return nil, errors.New("extraction interval must be positive")
	}

	duration, err := e.probeDuration(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe duration: %w", err)
	}

	framePattern := filepath.Join(outDir, "frame_%05d.jpg")
	cmd := exec.CommandContext(ctx, e.ffmpegPath,
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%g", intervalSec),
		"-f", "image2",
		"-y",
		framePattern,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output))
	}

	paths, err := filepath.Glob(filepath.Join(outDir, "frame_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("glob frames: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no frames extracted from video")
	}
	sort.Strings(paths)

	return &Result{
		Frames:          framesAt(paths, intervalSec),
		DurationSeconds: duration,
	}, nil
}

// framesAt pairs ordered frame paths with their offsets into the video.
func framesAt(paths []string, intervalSec float64) []Frame {
	frames := make([]Frame, 0, len(paths))
	for i, p := range paths {
		frames = append(frames, Frame{
			Path:          p,
			OffsetSeconds: float64(i) * intervalSec,
		})
	}
	return frames
}

func (e *FFmpeg) probeDuration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, e.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return duration, nil
}
