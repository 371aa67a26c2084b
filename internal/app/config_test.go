package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("API_BASE_URL", "https://api.example.test/v1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "https://api.example.test/v1", cfg.APIBaseURL)
	assert.False(t, cfg.IsProduction())
	assert.Positive(t, cfg.PickerDebounce)
}

func TestLoadConfigRejectsRelativeAPIBase(t *testing.T) {
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("API_BASE_URL", "/api")

	_, err := LoadConfig()
	assert.Error(t, err)
}
