package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"cctvapi/internal/analyzer"
	"cctvapi/internal/config"
	"cctvapi/internal/database"
	"cctvapi/internal/database/migration"
	"cctvapi/internal/extractor"
	"cctvapi/internal/repository/postgres"
	"cctvapi/internal/service"
	"cctvapi/internal/storage"
)

// Admin CLI for operations not exposed over HTTP. Exactly one of
// -video, -analyze, or -delete must be given.
//
// Usage:
//
//	cli -video path/to/footage.mp4        ingest a local video file
//	cli -analyze <video-id> [-limit N]    analyze the first N screenshots of a video
//	cli -delete <video-id>                remove a video, its frames, and its rows
func main() {
	videoPath := flag.String("video", "", "path to a local video file to ingest")
	analyzeID := flag.String("analyze", "", "video ID whose screenshots should be analyzed")
	limit := flag.Int("limit", 3, "max screenshots to analyze with -analyze")
	deleteID := flag.String("delete", "", "video ID to delete from storage and the database")
	flag.Parse()

	chosen := 0
	for _, v := range []string{*videoPath, *analyzeID, *deleteID} {
		if v != "" {
			chosen++
		}
	}
	if chosen != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	videoRepo := postgres.NewVideoPostgres(db)
	shotRepo := postgres.NewScreenshotPostgres(db)
	videoSvc := service.NewVideoService(objStore, videoRepo, shotRepo, extractor.NewFFmpeg(cfg.FFmpeg), cfg.Upload)

	switch {
	case *videoPath != "":
		if err := ingest(ctx, videoSvc, *videoPath); err != nil {
			log.Fatalf("ingest failed: %v", err)
		}
	case *analyzeID != "":
		describe, err := analyzer.NewGemini(cfg.Gemini)
		if err != nil {
			log.Fatalf("failed to initialize analyzer: %v", err)
		}
		shotSvc := service.NewScreenshotService(objStore, shotRepo, describe)
		if err := analyzeVideo(ctx, videoSvc, shotSvc, *analyzeID, *limit); err != nil {
			log.Fatalf("analyze failed: %v", err)
		}
	case *deleteID != "":
		if err := videoSvc.Delete(ctx, *deleteID); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		fmt.Printf("deleted video %s\n", *deleteID)
	}
}

// ingest uploads a local file through the same path an HTTP upload takes.
func ingest(ctx context.Context, svc service.VideoService, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = "application/octet-stream"
	}

	res, err := svc.Upload(ctx, f, filepath.Base(path), ct, st.Size())
	if err != nil {
		return err
	}

	fmt.Printf("video %s ingested, %d screenshots extracted\n", res.Video.ID, len(res.Screenshots))
	for _, shot := range res.Screenshots {
		fmt.Printf("  %s at %.1fs\n", shot.ID, shot.OffsetSeconds)
	}
	return nil
}

// analyzeVideo runs the description provider on the first few screenshots of
// a video, reusing cached results when present.
func analyzeVideo(ctx context.Context, videoSvc service.VideoService, shotSvc service.ScreenshotService, videoID string, limit int) error {
	shots, err := videoSvc.Screenshots(ctx, videoID)
	if err != nil {
		return err
	}
	if len(shots) == 0 {
		fmt.Println("no screenshots for this video")
		return nil
	}
	if limit > 0 && len(shots) > limit {
		shots = shots[:limit]
	}

	enc := json.NewEncoder(os.Stdout)
	for _, shot := range shots {
		analyzed, err := shotSvc.Analyze(ctx, shot.ID)
		if err != nil {
			return fmt.Errorf("screenshot %s: %w", shot.ID, err)
		}
		out := map[string]any{
			"screenshot_id":  analyzed.ID,
			"offset_seconds": analyzed.OffsetSeconds,
		}
		if analyzed.Analysis != nil {
			out["analysis"] = *analyzed.Analysis
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
