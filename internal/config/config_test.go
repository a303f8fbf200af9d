package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "PLATFORM_WEBHOOK_SECRET", "CONNECT_WEBHOOK_SECRET", "WEBHOOK_TOLERANCE",
		"MAX_BODY_BYTES", "EVENT_STORE_CAPACITY", "CORS_ALLOWED_ORIGIN", "LOG_LEVEL", "APP_ENV"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(missingDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Empty(t, cfg.PlatformWebhookSecret)
	assert.Empty(t, cfg.ConnectWebhookSecret)
	assert.Equal(t, time.Duration(0), cfg.WebhookTolerance)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 50, cfg.EventStoreCapacity)
	assert.Equal(t, "*", cfg.CORSAllowedOrigin)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "production", cfg.AppEnv)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("PLATFORM_WEBHOOK_SECRET", "whsec_p")
	t.Setenv("CONNECT_WEBHOOK_SECRET", "whsec_c")
	t.Setenv("WEBHOOK_TOLERANCE", "5m")
	t.Setenv("EVENT_STORE_CAPACITY", "10")

	cfg, err := Load(missingDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "whsec_p", cfg.PlatformWebhookSecret)
	assert.Equal(t, "whsec_c", cfg.ConnectWebhookSecret)
	assert.Equal(t, 5*time.Minute, cfg.WebhookTolerance)
	assert.Equal(t, 10, cfg.EventStoreCapacity)
}

func TestLoad_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv("PLATFORM_WEBHOOK_SECRET", "from-env")
	t.Setenv("CONNECT_WEBHOOK_SECRET", "")
	os.Unsetenv("CONNECT_WEBHOOK_SECRET")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PLATFORM_WEBHOOK_SECRET=from-file\nCONNECT_WEBHOOK_SECRET=whsec_file\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.PlatformWebhookSecret)
	assert.Equal(t, "whsec_file", cfg.ConnectWebhookSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port not a number", key: "PORT", value: "http"},
		{name: "port out of range", key: "PORT", value: "70000"},
		{name: "zero capacity", key: "EVENT_STORE_CAPACITY", value: "0"},
		{name: "bad tolerance", key: "WEBHOOK_TOLERANCE", value: "soon"},
		{name: "negative tolerance", key: "WEBHOOK_TOLERANCE", value: "-1s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load(missingDotenv(t))
			require.Error(t, err)
		})
	}
}
