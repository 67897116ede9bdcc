package config_test

import (
	"testing"
	"time"

	"go-payroll/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("RATE_LIMIT_RPS", "")
		t.Setenv("OUTBOX_POLL_INTERVAL", "")
		t.Setenv("CORS_ALLOWED_ORIGINS", "")

		cfg := config.Load()

		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, float64(10), cfg.RateLimitRPS)
		assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
		assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	})

	t.Run("overrides from env", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("RUN_LOCK_TTL", "2m")
		t.Setenv("RATE_LIMIT_BURST", "5")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

		cfg := config.Load()

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "db.internal", cfg.DB.Host)
		assert.Equal(t, 2*time.Minute, cfg.RunLockTTL)
		assert.Equal(t, 5, cfg.RateLimitBurst)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	})

	t.Run("invalid duration falls back", func(t *testing.T) {
		t.Setenv("SCHEDULER_INTERVAL", "soon")

		cfg := config.Load()

		assert.Equal(t, time.Hour, cfg.SchedulerInterval)
	})
}
