package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cctvapi/docs"
	"cctvapi/internal/analyzer"
	"cctvapi/internal/config"
	"cctvapi/internal/database"
	"cctvapi/internal/database/migration"
	"cctvapi/internal/extractor"
	handlers "cctvapi/internal/http/handler"
	"cctvapi/internal/http/middleware"
	"cctvapi/internal/otel"
	"cctvapi/internal/repository/postgres"
	"cctvapi/internal/service"
	"cctvapi/internal/storage"
)

// @title CCTV Video Analysis API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Tracing first so every downstream client picks up the provider
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// PostgreSQL connection (pooled via database/sql, instrumented via otelsql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// S3-compatible object storage for video files and extracted frames
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// ffmpeg-based frame extraction and the hosted image description client
	frames := extractor.NewFFmpeg(cfg.FFmpeg)
	describe, err := analyzer.NewGemini(cfg.Gemini)
	if err != nil {
		log.Fatalf("failed to initialize analyzer: %v", err)
	}

	videoRepo := postgres.NewVideoPostgres(db)
	shotRepo := postgres.NewScreenshotPostgres(db)
	videoSvc := service.NewVideoService(objStore, videoRepo, shotRepo, frames, cfg.Upload)
	shotSvc := service.NewScreenshotService(objStore, shotRepo, describe)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Upload.MaxUploadMB * 1024 * 1024,
	})

	// Global middleware: request IDs, JSON request logs, traces, metrics
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register prometheus metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, videoSvc, shotSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
