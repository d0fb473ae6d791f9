package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// UploadConfig holds video upload and frame extraction settings.
type UploadConfig struct {
	// TempDir is where per-upload work directories are created. Empty means os.TempDir.
	TempDir string
	// ScreenshotIntervalSec is the fixed interval in seconds between extracted frames.
	ScreenshotIntervalSec float64
	// MaxUploadMB caps the request body size for video uploads.
	MaxUploadMB int
	// AllowedExtensions is the set of accepted video file extensions (lowercase, with dot).
	AllowedExtensions []string
}

// FFmpegConfig holds paths to the external ffmpeg/ffprobe binaries.
type FFmpegConfig struct {
	FFmpegPath  string
	FFprobePath string
}

// GeminiConfig holds settings for the Gemini image analysis API.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Prompt     string
	TimeoutSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Upload   UploadConfig
	FFmpeg   FFmpegConfig
	Gemini   GeminiConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8000"),
		Port:    getEnv("PORT", "8000"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Upload: UploadConfig{
			TempDir:               getEnv("UPLOAD_TEMP_DIR", ""),
			ScreenshotIntervalSec: getEnvFloat("SCREENSHOT_INTERVAL_SEC", 5),
			MaxUploadMB:           getEnvInt("MAX_UPLOAD_MB", 50),
			AllowedExtensions:     getEnvList("ALLOWED_VIDEO_EXTENSIONS", []string{".mp4", ".avi", ".mov", ".wmv", ".mkv"}),
		},
		FFmpeg: FFmpegConfig{
			FFmpegPath:  getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath: getEnv("FFPROBE_PATH", "ffprobe"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL_NAME", "gemini-2.0-flash"),
			BaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Prompt:     getEnv("GEMINI_PROMPT", "Describe what is happening in this CCTV frame. Focus on people, vehicles and notable objects or events."),
			TimeoutSec: getEnvInt("GEMINI_TIMEOUT_SEC", 30),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

// getEnvList parses a comma-separated list, trimming spaces and lowercasing entries.
// Entries without a leading dot get one, so "mp4,MOV" becomes [".mp4", ".mov"].
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return def
	}
	return out
}
