package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// ApplicationName is reported to Postgres and shows up in pg_stat_activity.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	ApplicationName    string
	ConnectTimeoutSec  int
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnMaxIdleTimeSec int
}

// Enabled reports whether enough settings are present to open a connection.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != "" && c.Name != ""
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Config holds settings for AWS S3 or an S3-compatible endpoint such as Cloudflare R2.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// StorageConfig selects the object storage backend for uploaded resumes.
type StorageConfig struct {
	// Driver is one of "minio", "s3" or "none".
	Driver string
	MinIO  MinIOConfig
	S3     S3Config
}

// ExtractionConfig tunes the PDF text extraction pipeline.
type ExtractionConfig struct {
	MinTextLength  int
	MaxUploadBytes int
}

// ScoringConfig configures the external language model used for ATS scoring.
type ScoringConfig struct {
	// Provider is "groq" (any OpenAI-compatible chat completions API) or "gemini".
	Provider      string
	BaseURL       string
	APIKey        string
	Model         string
	Timeout       time.Duration
	MaxRetries    int
	RatePerSecond float64
}

// Enabled reports whether an API key was supplied.
func (c ScoringConfig) Enabled() bool {
	return c.APIKey != ""
}

// EventsConfig configures the AMQP event publisher. An empty URL disables publishing.
type EventsConfig struct {
	RabbitMQURL string
	Exchange    string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port        string
	ServiceName string
	Timezone    string
	Database    DatabaseConfig
	Storage     StorageConfig
	Extraction  ExtractionConfig
	Scoring     ScoringConfig
	Events      EventsConfig
}

// Location resolves Timezone, falling back to UTC when it is empty or unknown.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	provider := getEnv("SCORING_PROVIDER", "groq")

	return &AppConfig{
		Port:        getEnv("PORT", "8080"),
		ServiceName: getEnv("OTEL_SERVICE_NAME", "resumeparser"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "resumeparser"),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnMaxIdleTimeSec: getEnvInt("DB_CONN_MAX_IDLE_TIME_SEC", 60),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "minio"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", ""),
				Region:    getEnv("S3_REGION", "auto"),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
				Bucket:    getEnv("S3_BUCKET", ""),
			},
		},
		Extraction: ExtractionConfig{
			MinTextLength:  getEnvInt("EXTRACT_MIN_TEXT_LENGTH", 100),
			MaxUploadBytes: getEnvInt("MAX_UPLOAD_BYTES", 10<<20),
		},
		Scoring: ScoringConfig{
			Provider:      provider,
			BaseURL:       getEnv("SCORING_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:        getEnv("SCORING_API_KEY", ""),
			Model:         getEnv("SCORING_MODEL", defaultModel(provider)),
			Timeout:       getEnvDuration("SCORING_TIMEOUT", 30*time.Second),
			MaxRetries:    getEnvInt("SCORING_MAX_RETRIES", 2),
			RatePerSecond: getEnvFloat("SCORING_RATE_PER_SECOND", 2),
		},
		Events: EventsConfig{
			RabbitMQURL: getEnv("RABBITMQ_URL", ""),
			Exchange:    getEnv("RABBITMQ_EXCHANGE", "resume_events"),
		},
	}
}

func defaultModel(provider string) string {
	if provider == "gemini" {
		return "gemini-2.5-flash"
	}
	return "llama-3.3-70b-versatile"
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

// getEnvDuration accepts Go duration strings ("45s") or a bare number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
