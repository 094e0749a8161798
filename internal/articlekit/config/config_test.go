package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadConfigDefaults(t *testing.T) {
	cfg := ReadConfig()

	assert.Equal(t, "https://article-backend.fly.dev", cfg.APIURLRaw)
	assert.NotNil(t, cfg.APIURL)
	assert.Equal(t, cfg.APIURLRaw, cfg.ImageBaseURL)
	assert.Equal(t, "localhost:8080", cfg.PreviewAddr)
	assert.Equal(t, 300, cfg.SearchDebounceMs)
	assert.NotEmpty(t, cfg.SessionsDBPath)
}

func TestReadConfigFromEnv(t *testing.T) {
	t.Setenv("API_URL", "http://localhost:3000")
	t.Setenv("PREVIEW_ADDR", "localhost:9999")
	t.Setenv("SEARCH_DEBOUNCE_MS", "100")
	t.Setenv("DEBUG", "true")

	cfg := ReadConfig()
	assert.Equal(t, "http://localhost:3000", cfg.APIURLRaw)
	assert.Equal(t, "localhost:9999", cfg.PreviewAddr)
	assert.Equal(t, 100, cfg.SearchDebounceMs)
	assert.True(t, cfg.Debug)
}
