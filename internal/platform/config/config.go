package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything main needs to wire the service.
type Config struct {
	Addr          string
	PublicBaseURL string

	// AdminEmail is the single super-admin override for the access gate and
	// the moderation surface.
	AdminEmail string

	JWTSigningKey string

	PostgresURL string

	Redis RedisConfig
	Kafka KafkaConfig
	SMTP  SMTPConfig

	// DirectoryCacheTTL bounds staleness of the cached directory listing.
	// Access decisions are never cached; only the listing payload is.
	DirectoryCacheTTL time.Duration
}

// RedisConfig holds connection settings for the directory listing cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the notification outbox relay settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// SMTPConfig holds mail delivery settings for the notification worker.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:              envOr("BESTBOSSES_ADDR", ":8080"),
		PublicBaseURL:     envOr("BESTBOSSES_BASE_URL", "http://localhost:8080"),
		AdminEmail:        os.Getenv("BESTBOSSES_ADMIN_EMAIL"),
		JWTSigningKey:     envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PostgresURL:       os.Getenv("DATABASE_URL"),
		DirectoryCacheTTL: envDurationOr("DIRECTORY_CACHE_TTL", 30*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_NOTIFICATION_TOPIC", "bestbosses.notifications"),
			GroupID: envOr("KAFKA_NOTIFICATION_GROUP", "bestbosses-mailer"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envIntOr("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOr("MAIL_FROM", "info@bestbosses.org"),
			FromName: envOr("MAIL_FROM_NAME", "Best Bosses"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
