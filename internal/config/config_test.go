package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "wfp_session", cfg.SessionCookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	assert.Equal(t, time.Second, cfg.TaskTimerInterval)
	assert.True(t, cfg.MigrateOnStart)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.PDFFontPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL_HOURS", "12")
	t.Setenv("TASK_TIMER_INTERVAL", "2s")
	t.Setenv("SMTP_HOST", "smtp.acme.test")
	t.Setenv("PDF_FONT_PATH", "/fonts/DejaVuSans.ttf")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CookieSecure, "production forces secure cookies")
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL())
	assert.Equal(t, 2*time.Second, cfg.TaskTimerInterval)
	assert.Equal(t, "smtp.acme.test", cfg.SMTPHost)
	assert.Equal(t, "/fonts/DejaVuSans.ttf", cfg.PDFFontPath)
}
