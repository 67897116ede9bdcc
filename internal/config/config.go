package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go-payroll/internal/shared/connection"
)

type Config struct {
	Port        string
	DB          connection.DBConfig
	RedisAddr   string
	KafkaBroker string
	JWTSecret   string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	OutboxPollInterval time.Duration
	OutboxRetention    time.Duration
	SchedulerInterval  time.Duration
	RunLockTTL         time.Duration

	RBACModelPath string
}

// Load reads settings from the environment. Callers run godotenv.Load first
// so a local .env file fills in whatever the shell does not set.
func Load() Config {
	return Config{
		Port: getString("PORT", "3000"),
		DB: connection.DBConfig{
			Host:     getString("DB_HOST", "localhost"),
			User:     getString("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getString("DB_NAME", "payroll"),
			Port:     getString("DB_PORT", "5432"),
			SSLMode:  getString("DB_SSLMODE", "disable"),
		},
		RedisAddr:          getString("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		RateLimitRPS:       getFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 20),
		OutboxPollInterval: getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		OutboxRetention:    getDuration("OUTBOX_RETENTION", 7*24*time.Hour),
		SchedulerInterval:  getDuration("SCHEDULER_INTERVAL", time.Hour),
		RunLockTTL:         getDuration("RUN_LOCK_TTL", 10*time.Minute),
		RBACModelPath:      getString("RBAC_MODEL_PATH", "internal/rbac/infra/model.conf"),
	}
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
