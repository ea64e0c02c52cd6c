package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_CallClasses(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0, cfg.ClassRetries(ClassCreate), "creation is never auto-retried")
	assert.Equal(t, 0, cfg.ClassRetries(ClassPayment), "payments are never auto-retried")
	assert.Equal(t, 2, cfg.ClassRetries(ClassSoft))
	assert.Equal(t, 2, cfg.ClassRetries(ClassRead))
	assert.Greater(t, cfg.ClassTimeout(ClassCreate), 0)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://api.internal:9000
log_calls: true
classes:
  soft:
    timeout_ms: 1234
`), 0o644))

	t.Setenv("ACCORD_CONFIG", path)
	t.Setenv("ACCORD_API_BASE_URL", "")
	t.Setenv("ACCORD_API_SOFT_TIMEOUT_MS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:9000", cfg.BaseURL)
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, 1234, cfg.ClassTimeout(ClassSoft))
	assert.Equal(t, 2, cfg.ClassRetries(ClassSoft), "file without max_retries keeps the default")

	t.Setenv("ACCORD_API_BASE_URL", "http://override:1")
	t.Setenv("ACCORD_API_SOFT_TIMEOUT_MS", "99")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://override:1", cfg.BaseURL)
	assert.Equal(t, 99, cfg.ClassTimeout(ClassSoft))
}

func TestLoadConfig_MissingFileIsFine(t *testing.T) {
	t.Setenv("ACCORD_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("ACCORD_API_BASE_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BaseURL, cfg.BaseURL)
}
