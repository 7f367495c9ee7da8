package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	// Blob store backend: "file" or "s3".
	StorageBackend  string
	StorageDir      string
	StorageBaseURL  string
	S3Bucket        string
	S3PublicBaseURL string
	AWSRegion       string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	CORSAllowedOrigins []string

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 port,
		StorageBackend:       strings.ToLower(getEnv("STORAGE_BACKEND", "file")),
		StorageDir:           getEnv("STORAGE_DIR", "./data/blobs"),
		StorageBaseURL:       getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		S3Bucket:             os.Getenv("S3_BUCKET"),
		S3PublicBaseURL:      os.Getenv("S3_PUBLIC_BASE_URL"),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:        getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		CORSAllowedOrigins:   splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		SessionTTL:           time.Minute * time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)),
		SessionSweepInterval: time.Minute * time.Duration(getEnvInt("SESSION_SWEEP_INTERVAL_MINUTES", 5)),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	switch cfg.StorageBackend {
	case "file":
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
