package extractor

import (
	"context"
	"testing"

	"cctvapi/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestFramesAt(t *testing.T) {
	paths := []string{"frames/frame_00001.jpg", "frames/frame_00002.jpg", "frames/frame_00003.jpg"}

	frames := framesAt(paths, 5)

	assert.Len(t, frames, 3)
	assert.Equal(t, 0.0, frames[0].OffsetSeconds)
	assert.Equal(t, 5.0, frames[1].OffsetSeconds)
	assert.Equal(t, 10.0, frames[2].OffsetSeconds)
	assert.Equal(t, "frames/frame_00001.jpg", frames[0].Path)
}

func TestFramesAt_FractionalInterval(t *testing.T) {
	frames := framesAt([]string{"a.jpg", "b.jpg"}, 2.5)

	assert.Equal(t, 0.0, frames[0].OffsetSeconds)
	assert.Equal(t, 2.5, frames[1].OffsetSeconds)
}

func TestFFmpeg_Extract_InvalidInterval(t *testing.T) {
	e := NewFFmpeg(config.FFmpegConfig{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe"})

	res, err := e.Extract(context.Background(), "input.mp4", t.TempDir(), 0)

	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestFFmpeg_Extract_MissingBinary(t *testing.T) {
	e := NewFFmpeg(config.FFmpegConfig{FFmpegPath: "ffmpeg-does-not-exist", FFprobePath: "ffprobe-does-not-exist"})

	res, err := e.Extract(context.Background(), "input.mp4", t.TempDir(), 5)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "probe duration")
	assert.Nil(t, res)
}
