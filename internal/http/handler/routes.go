package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cctvapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; all business logic lives in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, videoSvc service.VideoService, shotSvc service.ScreenshotService) {
	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(db))

	// Simple liveness probe for orchestrators
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	api.Post("/videos", UploadVideo(videoSvc))
	api.Get("/videos", ListVideos(videoSvc))
	api.Get("/videos/:id", GetVideo(videoSvc))
	api.Get("/videos/:id/screenshots", ListVideoScreenshots(videoSvc))

	api.Post("/screenshots/:id/analyze", AnalyzeScreenshot(shotSvc))
	api.Get("/screenshots/:id/analysis", GetScreenshotAnalysis(shotSvc))
	api.Get("/screenshots/:id/url", ScreenshotURL(shotSvc))
}

// HealthCheck reports whether the database dependency is reachable.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always returns 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadVideo accepts a multipart/form-data upload (field name: video),
// extracts frames at the configured interval, and returns the stored video
// together with its screenshot records.
func UploadVideo(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("video")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "video file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		res, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			if errors.Is(err, service.ErrUnsupportedFormat) {
				return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported video format")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// ListVideos returns videos with limit & offset pagination.
func ListVideos(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limitStr := c.Query("limit", "10")
		offsetStr := c.Query("offset", "0")
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetVideo returns a single video by ID.
func GetVideo(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		v, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "video not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(v)
	}
}

// ListVideoScreenshots returns every screenshot of a video ordered by offset.
func ListVideoScreenshots(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		shots, err := svc.Screenshots(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "video not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"video_id": id, "data": shots, "total": len(shots)})
	}
}

// AnalyzeScreenshot runs the image description provider on a screenshot.
// A cached analysis is returned without calling the provider again.
func AnalyzeScreenshot(svc service.ScreenshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		shot, err := svc.Analyze(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "screenshot not found")
			case errors.Is(err, service.ErrUpstream):
				return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "analysis provider failed")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(shot)
	}
}

// GetScreenshotAnalysis returns a screenshot's cached analysis, if any.
func GetScreenshotAnalysis(svc service.ScreenshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		shot, err := svc.Analysis(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "screenshot not found")
			case errors.Is(err, service.ErrNoAnalysis):
				return writeError(c, fiber.StatusNotFound, "ANALYSIS_NOT_FOUND", "screenshot has not been analyzed")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(fiber.Map{
			"screenshot_id": shot.ID,
			"analysis":      shot.Analysis,
			"analyzed_at":   shot.AnalyzedAt,
		})
	}
}

// ScreenshotURL returns a time-limited download URL for the frame image.
func ScreenshotURL(svc service.ScreenshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.PresignURL(c.UserContext(), id, service.DefaultPresignExpiry)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "screenshot not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"url": url, "expires_in_seconds": int(service.DefaultPresignExpiry.Seconds())})
	}
}
