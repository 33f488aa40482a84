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

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "https://horizon-api.www.lookfantastic.com", cfg.UpstreamURL)
	assert.Equal(t, 60*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "lookfantastic", cfg.AltitudeInstance)
	assert.Equal(t, "luxury-storefront", cfg.HorizonClient)
	assert.False(t, cfg.OTELEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("UPSTREAM_URL", "http://localhost:9999")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:8081,http://localhost:19006")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "http://localhost:9999", cfg.UpstreamURL)
	assert.Equal(t, []string{"http://localhost:8081", "http://localhost:19006"}, cfg.CORSAllowedOrigins)
}

func TestLoad_RejectsRelativeUpstreamURL(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "not-a-url")

	_, err := Load()
	assert.ErrorContains(t, err, "UPSTREAM_URL")
}

func TestLoad_RejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "70000")

	_, err := Load()
	assert.ErrorContains(t, err, "PORT")
}
