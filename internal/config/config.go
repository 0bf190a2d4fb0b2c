package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings shared by the api, worker and consumer binaries.
type Config struct {
	Port             string
	DBHost           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBPort           string
	DBSSLMode        string
	ConnectRetries   int
	RedisAddr        string
	KafkaBroker      string
	KafkaGroupID     string
	JWTSecret        string
	AccessTokenTTL   time.Duration
	PendingCacheTTL  time.Duration
	OutboxPoll       time.Duration
	LoginRatePerSec  float64
	LoginBurst       int
	OTLPEndpoint     string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	IdempotencyTTL   time.Duration
	WorkflowRatePerS float64
	WorkflowBurst    int
}

func Load() Config {
	return Config{
		Port:             getEnv("PORT", "3000"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		DBName:           getEnv("DB_NAME", "go_leave"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		ConnectRetries:   getEnvInt("CONNECT_RETRIES", 5),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		KafkaBroker:      getEnv("KAFKA_BROKER", ""),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "go-leave-notifier"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		AccessTokenTTL:   getEnvDuration("ACCESS_TOKEN_TTL", 12*time.Hour),
		PendingCacheTTL:  getEnvDuration("PENDING_CACHE_TTL", 30*time.Second),
		OutboxPoll:       getEnvDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		LoginRatePerSec:  getEnvFloat("LOGIN_RATE_PER_SEC", 1),
		LoginBurst:       getEnvInt("LOGIN_BURST", 5),
		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Environment:      getEnv("APP_ENV", "development"),
		ReadTimeout:      getEnvDuration("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:     getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:      getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		IdempotencyTTL:   getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		WorkflowRatePerS: getEnvFloat("WORKFLOW_RATE_PER_SEC", 5),
		WorkflowBurst:    getEnvInt("WORKFLOW_BURST", 10),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment == "production" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if strings.TrimSpace(c.DBHost) == "" || strings.TrimSpace(c.DBName) == "" {
		return fmt.Errorf("DB_HOST and DB_NAME are required")
	}
	if c.ConnectRetries <= 0 {
		return fmt.Errorf("CONNECT_RETRIES must be positive")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if c.PendingCacheTTL < 0 {
		return fmt.Errorf("PENDING_CACHE_TTL must not be negative")
	}
	if c.LoginRatePerSec <= 0 || c.LoginBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_SEC and LOGIN_BURST must be positive")
	}
	if c.WorkflowRatePerS <= 0 || c.WorkflowBurst <= 0 {
		return fmt.Errorf("WORKFLOW_RATE_PER_SEC and WORKFLOW_BURST must be positive")
	}
	return nil
}

// ValidateMessaging is checked by the worker and consumer, which cannot run
// without a broker.
func (c Config) ValidateMessaging() error {
	if strings.TrimSpace(c.KafkaBroker) == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	if c.OutboxPoll <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive")
	}
	return nil
}

// ClientConfig drives leavectl.
type ClientConfig struct {
	APIURL          string
	SessionDir      string
	SessionHashKey  string
	SessionBlockKey string
	SessionTTL      time.Duration
	Locale          string
	RequestTimeout  time.Duration
}

func LoadClient() ClientConfig {
	return ClientConfig{
		APIURL:          getEnv("LEAVE_API_URL", "http://localhost:3000"),
		SessionDir:      getEnv("LEAVE_SESSION_DIR", defaultSessionDir()),
		SessionHashKey:  getEnv("LEAVE_SESSION_HASH_KEY", ""),
		SessionBlockKey: getEnv("LEAVE_SESSION_BLOCK_KEY", ""),
		SessionTTL:      getEnvDuration("LEAVE_SESSION_TTL", 0),
		Locale:          getEnv("LEAVE_LOCALE", "en"),
		RequestTimeout:  getEnvDuration("LEAVE_REQUEST_TIMEOUT", 15*time.Second),
	}
}

func (c ClientConfig) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("LEAVE_API_URL is required")
	}
	if strings.TrimSpace(c.SessionDir) == "" {
		return fmt.Errorf("LEAVE_SESSION_DIR is required")
	}
	if len(c.SessionHashKey) < 32 {
		return fmt.Errorf("LEAVE_SESSION_HASH_KEY must be at least 32 bytes")
	}
	switch len(c.SessionBlockKey) {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("LEAVE_SESSION_BLOCK_KEY must be 16, 24 or 32 bytes")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("LEAVE_SESSION_TTL must not be negative")
	}
	return nil
}

func defaultSessionDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".leavectl"
	}
	return dir + string(os.PathSeparator) + "leavectl"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
