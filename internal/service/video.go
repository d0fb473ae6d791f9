package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cctvapi/internal/config"
	"cctvapi/internal/extractor"
	"cctvapi/internal/model"
	"cctvapi/internal/repository"
	"cctvapi/internal/storage"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrNotFound          = errors.New("record not found")
	ErrReaderNil         = errors.New("reader is nil")
	ErrUnsupportedFormat = errors.New("unsupported video format")
)

// UploadResult is what a successful video upload produces: the stored video
// and the screenshot records extracted from it.
type UploadResult struct {
	Video       *model.Video       `json:"video"`
	Screenshots []model.Screenshot `json:"screenshots"`
}

// VideoListResult is the service-level DTO for paginated videos.
type VideoListResult struct {
	Items []model.Video `json:"data"`
	Total int           `json:"total"`
}

// VideoService defines the use cases for handling uploaded footage.
type VideoService interface {
	// Upload stores the video in object storage, extracts still frames at the
	// configured interval, uploads the frames, and persists video + screenshot
	// records. Storage uploads are rolled back if the DB save fails.
	// - originalFilename is used to validate and extract the extension; the
	//   stored filename is UUID + original extension.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*UploadResult, error)

	// List returns videos using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*VideoListResult, error)

	// Get returns a single video by its ID.
	Get(ctx context.Context, id string) (*model.Video, error)

	// Screenshots returns all screenshots of a video ordered by offset.
	Screenshots(ctx context.Context, videoID string) ([]model.Screenshot, error)

	// Delete removes a video and its screenshots from both storage and the
	// database. It is not exposed over HTTP; the admin CLI calls it.
	Delete(ctx context.Context, id string) error
}

// videoService is a concrete implementation of VideoService.
type videoService struct {
	store  storage.Storage
	videos repository.VideoRepository
	shots  repository.ScreenshotRepository
	frames extractor.Extractor
	upload config.UploadConfig
}

// NewVideoService constructs a new VideoService.
func NewVideoService(
	store storage.Storage,
	videos repository.VideoRepository,
	shots repository.ScreenshotRepository,
	frames extractor.Extractor,
	upload config.UploadConfig,
) VideoService {
	return &videoService{
		store:  store,
		videos: videos,
		shots:  shots,
		frames: frames,
		upload: upload,
	}
}

func (s *videoService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*UploadResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !s.extensionAllowed(ext) {
		return nil, ErrUnsupportedFormat
	}

	// ffmpeg reads from a file, so the upload is spooled into a per-request
	// work directory that is removed regardless of the outcome.
	workDir, err := os.MkdirTemp(s.upload.TempDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	videoPath := filepath.Join(workDir, "input"+ext)
	written, err := spoolToFile(videoPath, r)
	if err != nil {
		return nil, fmt.Errorf("spool upload: %w", err)
	}

	framesDir := filepath.Join(workDir, "frames")
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create frames dir: %w", err)
	}
	extracted, err := s.frames.Extract(ctx, videoPath, framesDir, s.upload.ScreenshotIntervalSec)
	if err != nil {
		return nil, fmt.Errorf("extract frames: %w", err)
	}

	videoID := uuid.New().String()
	genName := videoID + ext
	videoKey := filepath.ToSlash(filepath.Join("videos", genName))

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Upload the video, then each frame. Keys are collected so a later DB
	// failure can undo the uploads.
	uploaded := make([]string, 0, len(extracted.Frames)+1)

	if err := s.putFile(ctx, videoKey, videoPath, storage.PutObjectOptions{
		Size:        written,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": originalFilename},
	}); err != nil {
		return nil, fmt.Errorf("upload video to storage: %w", err)
	}
	uploaded = append(uploaded, videoKey)

	frameKeys := make([]string, len(extracted.Frames))
	for i, fr := range extracted.Frames {
		key := fmt.Sprintf("screenshots/%s/%05d.jpg", videoID, i)
		st, err := os.Stat(fr.Path)
		if err != nil {
			s.rollbackObjects(ctx, uploaded)
			return nil, fmt.Errorf("stat frame: %w", err)
		}
		if err := s.putFile(ctx, key, fr.Path, storage.PutObjectOptions{
			Size:        st.Size(),
			ContentType: "image/jpeg",
		}); err != nil {
			s.rollbackObjects(ctx, uploaded)
			return nil, fmt.Errorf("upload frame to storage: %w", err)
		}
		uploaded = append(uploaded, key)
		frameKeys[i] = key
	}

	now := time.Now().UTC()
	video := &model.Video{
		ID:               videoID,
		Filename:         genName,
		OriginalFilename: originalFilename,
		StoragePath:      videoKey,
		Size:             written,
		ContentType:      contentType,
		DurationSeconds:  extracted.DurationSeconds,
		UploadedAt:       now,
	}
	storedVideo, err := s.videos.Create(ctx, video)
	if err != nil {
		s.rollbackObjects(ctx, uploaded)
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	shots := make([]model.Screenshot, 0, len(extracted.Frames))
	for i, fr := range extracted.Frames {
		shot := &model.Screenshot{
			ID:            uuid.New().String(),
			VideoID:       videoID,
			OffsetSeconds: fr.OffsetSeconds,
			StoragePath:   frameKeys[i],
			CreatedAt:     now,
		}
		stored, err := s.shots.Create(ctx, shot)
		if err != nil {
			s.rollbackObjects(ctx, uploaded)
			// Cascade removes any screenshot rows already inserted.
			_ = s.videos.Delete(ctx, videoID)
			return nil, fmt.Errorf("db save failed: %w", err)
		}
		shots = append(shots, *stored)
	}

	return &UploadResult{Video: storedVideo, Screenshots: shots}, nil
}

// List returns paginated videos without exposing repository types.
func (s *videoService) List(ctx context.Context, limit, offset int) (*VideoListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.videos.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &VideoListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a video by ID.
func (s *videoService) Get(ctx context.Context, id string) (*model.Video, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	v, err := s.videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Screenshots lists a video's screenshots after checking the video exists.
func (s *videoService) Screenshots(ctx context.Context, videoID string) ([]model.Screenshot, error) {
	if videoID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.shots.ListByVideo(ctx, videoID)
}

// Delete removes the video object and every frame object from storage, then
// deletes the video row. Screenshot rows cascade at the schema level.
func (s *videoService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	v, err := s.videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	shots, err := s.shots.ListByVideo(ctx, id)
	if err != nil {
		return err
	}
	// Storage first; if this fails, keep DB rows to avoid losing the reference.
	for _, shot := range shots {
		if err := s.store.Delete(ctx, shot.StoragePath); err != nil {
			return fmt.Errorf("delete screenshot object: %w", err)
		}
	}
	if err := s.store.Delete(ctx, v.StoragePath); err != nil {
		return fmt.Errorf("delete video object: %w", err)
	}
	return s.videos.Delete(ctx, id)
}

func (s *videoService) extensionAllowed(ext string) bool {
	for _, allowed := range s.upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// putFile uploads a local file under the given key.
func (s *videoService) putFile(ctx context.Context, key, path string, opt storage.PutObjectOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = s.store.Put(ctx, key, f, opt)
	return err
}

// rollbackObjects best-effort deletes already-uploaded objects after a failure.
func (s *videoService) rollbackObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		_ = s.store.Delete(ctx, key)
	}
}

func spoolToFile(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(f, r)
}
