package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.True(t, cfg.Matching.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Matching.RunTimeout)
	assert.Equal(t, 8, cfg.Matching.Workers)
	assert.Equal(t, 10*time.Minute, cfg.Matching.CacheTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("MATCHING_RUN_TIMEOUT", "5s")
	t.Setenv("MATCHING_WORKERS", "0")
	t.Setenv("ALLOWED_ORIGINS", "https://planner.example.com, ,https://ops.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Matching.RunTimeout)
	assert.Equal(t, 8, cfg.Matching.Workers)
	assert.Equal(t, []string{"https://planner.example.com", "https://ops.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
