package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	defaultListenAddr       = ":8080"
	defaultDatabaseURL      = "eraflix.db"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTTTL           = "24h"
	defaultBookingPrefix    = "EF"
	defaultBookingRetries   = "5"
	defaultBookingTimezone  = "Asia/Kolkata"
	defaultRedisStream      = "booking-events"
	defaultRelayInterval    = "10s"
	defaultRelayBatchSize   = "50"
	defaultRelayMaxAttempts = "8"
	defaultOutboxRetention  = "720h"
)

type Config struct {
	AppEnv      string
	ListenAddr  string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins string

	BookingIDPrefix   string
	IdentifierRetries int
	Location          *time.Location

	RedisURL    string
	RedisStream string
	SQSQueueURL string

	RelayInterval    time.Duration
	RelayBatchSize   int
	RelayMaxAttempts int
	OutboxRetention  time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = strings.TrimSpace(getEnv("LISTEN_ADDR", defaultListenAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.CORSAllowedOrigins = strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	cfg.BookingIDPrefix = strings.ToUpper(strings.TrimSpace(getEnv("BOOKING_ID_PREFIX", defaultBookingPrefix)))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.RedisStream = strings.TrimSpace(getEnv("REDIS_STREAM", defaultRedisStream))
	cfg.SQSQueueURL = strings.TrimSpace(os.Getenv("SQS_QUEUE_URL"))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.RelayInterval, err = parseDurationEnv("RELAY_INTERVAL", defaultRelayInterval); err != nil {
		return nil, err
	}
	if cfg.OutboxRetention, err = parseDurationEnv("OUTBOX_RETENTION", defaultOutboxRetention); err != nil {
		return nil, err
	}
	if cfg.IdentifierRetries, err = parseIntEnv("BOOKING_ID_RETRIES", defaultBookingRetries); err != nil {
		return nil, err
	}
	if cfg.RelayBatchSize, err = parseIntEnv("RELAY_BATCH_SIZE", defaultRelayBatchSize); err != nil {
		return nil, err
	}
	if cfg.RelayMaxAttempts, err = parseIntEnv("RELAY_MAX_ATTEMPTS", defaultRelayMaxAttempts); err != nil {
		return nil, err
	}

	tz := strings.TrimSpace(getEnv("BOOKING_TIMEZONE", defaultBookingTimezone))
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE value %q: %w", tz, err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s listen=%s prefix=%s retries=%d tz=%s redis=%t sqs=%t",
		cfg.AppEnv, cfg.ListenAddr, cfg.BookingIDPrefix, cfg.IdentifierRetries, cfg.Location,
		cfg.RedisURL != "", cfg.SQSQueueURL != "")

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.BookingIDPrefix == "" {
		return fmt.Errorf("BOOKING_ID_PREFIX must not be empty")
	}
	if cfg.IdentifierRetries < 1 {
		return fmt.Errorf("BOOKING_ID_RETRIES must be >= 1")
	}
	if cfg.RelayInterval <= 0 {
		return fmt.Errorf("RELAY_INTERVAL must be > 0")
	}
	if cfg.RelayBatchSize < 1 {
		return fmt.Errorf("RELAY_BATCH_SIZE must be >= 1")
	}
	if cfg.RelayMaxAttempts < 1 {
		return fmt.Errorf("RELAY_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.OutboxRetention <= 0 {
		return fmt.Errorf("OUTBOX_RETENTION must be > 0")
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !IsPostgresDSN(cfg.DatabaseURL) {
			return fmt.Errorf("in prod/release DATABASE_URL must point to PostgreSQL")
		}
	}

	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
