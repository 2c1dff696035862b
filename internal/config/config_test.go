package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// chdir moves into dir so LoadConfig does not pick up a stray .env
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
backend:
  base_url: http://records.internal:8080
confirm:
  secret: 0123456789abcdef0123
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://records.internal:8080", cfg.Backend.BaseURL)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 2026, cfg.Console.FormDefaultYear)
	assert.Equal(t, time.Second, cfg.InitRetryDelay())
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout())
	assert.Equal(t, 10*time.Minute, cfg.ConfirmTTL())
	assert.Empty(t, cfg.EnvOverrides())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
confirm:
  secret: 0123456789abcdef0123
`)
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("CONSOLE_FORM_DEFAULT_YEAR", "2025")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.BackendTimeout())
	assert.Equal(t, 2025, cfg.Console.FormDefaultYear)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.ElementsMatch(t, []string{"BACKEND_TIMEOUT", "CONSOLE_FORM_DEFAULT_YEAR", "REDIS_ADDR"}, cfg.EnvOverrides())
}

func TestLoadConfig_Invalid(t *testing.T) {
	chdir(t, t.TempDir())

	t.Run("missing secret", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "server:\n  port: \"3000\"\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Secret")
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
confirm:
  secret: 0123456789abcdef0123
console:
  init_retry_delay: soon
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "InitRetryDelay")
	})

	t.Run("bad env integer", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		_, err := LoadConfig(writeConfig(t, "confirm:\n  secret: 0123456789abcdef0123\n"))
		require.Error(t, err)
	})
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CONFIRM_SECRET=from-dotenv-0123456789\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CONFIRM_SECRET") })

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv-0123456789", cfg.Confirm.Secret)
}
