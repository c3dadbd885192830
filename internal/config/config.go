package config

import (
	"os"
	"strconv"
	"time"
)

// EnvProduction gates how much error detail the HTTP layer is allowed to echo.
const EnvProduction = "production"

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

// MinIOConfig holds object storage settings for the S3-compatible backend.
// PublicBaseURL, when set, is used to build retrieval URLs (e.g. a CDN or
// reverse-proxy host in front of the bucket); otherwise URLs are derived from
// the endpoint and bucket.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UseSSL        bool
}

// UploadConfig bounds the ingestion pipeline.
type UploadConfig struct {
	// MaxFileBytes is the per-file hard cap, enforced before any remote call.
	MaxFileBytes int64
	// MaxBatchFiles caps how many files one multi-upload request may carry.
	MaxBatchFiles int
	// CommitTimeout bounds each remote store call.
	CommitTimeout time.Duration
	// StatsCacheTTL controls how long catalog stats are served from cache.
	StatsCacheTTL time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Env      string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Upload   UploadConfig
}

// IsProduction reports whether the app runs with production error redaction.
func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Env:     getEnv("APP_ENV", "development"),
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
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", ""),
			PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
		},
		Upload: UploadConfig{
			MaxFileBytes:  getEnvInt64("UPLOAD_MAX_FILE_BYTES", 5<<20),
			MaxBatchFiles: getEnvInt("UPLOAD_MAX_BATCH_FILES", 10),
			CommitTimeout: time.Duration(getEnvInt("UPLOAD_COMMIT_TIMEOUT_SEC", 30)) * time.Second,
			StatsCacheTTL: time.Duration(getEnvInt("STATS_CACHE_TTL_SEC", 30)) * time.Second,
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

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
