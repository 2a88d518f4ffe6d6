package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "*/15 * * * *", cfg.Scheduler.ClassCompletionCron)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.AllowOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://admin.example.com ,, ")
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{App: AppConfig{Timezone: "Not/AZone"}}
	assert.Equal(t, time.UTC, cfg.Location())
}
