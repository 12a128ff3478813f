package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, c.SlogLevel())
		})
	}
}

func TestAppConfig_Paths(t *testing.T) {
	c := &AppConfig{DataDir: "/data"}
	assert.Equal(t, "/data/logs", c.LogDir())
	assert.Equal(t, "/data/notificator.db", c.DBPath())
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NOTIFICATOR_DATA_DIR", "/tmp/test-notificator")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("NOTIFICATOR_ADMIN_ADDRESSES", "ops@example.com, lead@example.com")
	t.Setenv("NOTIFICATOR_CORS_ORIGINS", "")
	unsetEnv(t, "OTEL_ENABLED", "OTEL_SAMPLING_RATE", "SMTP_PORT", "SMTP_ENCRYPTION", "NOTIFICATOR_DISPATCH_CRON")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test-notificator", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "starttls", cfg.SMTPEncryption)
	assert.Equal(t, "0 6 * * *", cfg.DispatchCron)
	assert.Equal(t, []string{"ops@example.com", "lead@example.com"}, cfg.AdminAddresses)
	assert.Empty(t, cfg.CORSOrigins)
	assert.False(t, cfg.OTelEnabled)
	assert.InDelta(t, 1.0, cfg.OTelSamplingRate, 0.0001)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestAppConfig_ValidateMail(t *testing.T) {
	valid := AppConfig{
		SMTPHost:       "smtp.example.com",
		SMTPEncryption: "starttls",
		FromAddress:    "noreply@example.com",
		AdminAddresses: []string{"ops@example.com"},
	}
	assert.NoError(t, valid.ValidateMail())

	missing := AppConfig{SMTPEncryption: "bogus"}
	err := missing.ValidateMail()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_HOST")
	assert.Contains(t, err.Error(), "NOTIFICATOR_FROM_ADDRESS")
	assert.Contains(t, err.Error(), "NOTIFICATOR_ADMIN_ADDRESSES")
	assert.Contains(t, err.Error(), "SMTP_ENCRYPTION")
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOTIFICATOR_BRAND_NAME=ACME\n"), 0600))
	unsetEnv(t, "NOTIFICATOR_BRAND_NAME")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "ACME", os.Getenv("NOTIFICATOR_BRAND_NAME"))
}

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
