package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Messaging    MessagingConfig
	Storage      StorageConfig
	Pipeline     PipelineConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// MessagingConfig points at the BuilderBot send-message API.
type MessagingConfig struct {
	APIURL         string
	APIKey         string
	TimeoutSeconds int
}

// StorageConfig points at the durable media storage service.
type StorageConfig struct {
	Endpoint       string
	Token          string
	TimeoutSeconds int
}

// PipelineConfig tunes the inbound ingestion pipeline.
type PipelineConfig struct {
	ThreadWindowHours     int
	EscalationMsgCount    int
	AutoReplyEnabled      bool
	IdempotencyTTLMinutes int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Messaging: MessagingConfig{
			APIURL:         getEnv("BUILDERBOT_API_URL", ""),
			APIKey:         os.Getenv("BUILDERBOT_API_KEY"),
			TimeoutSeconds: getEnvAsInt("BUILDERBOT_TIMEOUT_SECONDS", 10),
		},
		Storage: StorageConfig{
			Endpoint:       getEnv("BLOB_ENDPOINT", ""),
			Token:          os.Getenv("BLOB_READ_WRITE_TOKEN"),
			TimeoutSeconds: getEnvAsInt("BLOB_TIMEOUT_SECONDS", 15),
		},
		Pipeline: PipelineConfig{
			ThreadWindowHours:     getEnvAsInt("PIPELINE_THREAD_WINDOW_HOURS", 48),
			EscalationMsgCount:    getEnvAsInt("PIPELINE_ESCALATION_MESSAGE_COUNT", 3),
			AutoReplyEnabled:      getEnvAsBool("PIPELINE_AUTO_REPLY_ENABLED", true),
			IdempotencyTTLMinutes: getEnvAsInt("PIPELINE_IDEMPOTENCY_TTL_MINUTES", 90),
		},
		Notification: NotificationConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ThreadWindow returns the lookback window for ticket threading.
func (p PipelineConfig) ThreadWindow() time.Duration {
	if p.ThreadWindowHours <= 0 {
		return 48 * time.Hour
	}
	return time.Duration(p.ThreadWindowHours) * time.Hour
}

// IdempotencyTTL returns the reservation lifetime for message fingerprints.
func (p PipelineConfig) IdempotencyTTL() time.Duration {
	if p.IdempotencyTTLMinutes <= 0 {
		return 90 * time.Minute
	}
	return time.Duration(p.IdempotencyTTLMinutes) * time.Minute
}

// Timeout returns the messaging client timeout.
func (m MessagingConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Timeout returns the storage client timeout.
func (s StorageConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
