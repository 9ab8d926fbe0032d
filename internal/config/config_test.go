package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindshifting/mindshift/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen.Addr)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "none", cfg.AI.Provider)
	assert.Equal(t, 10*time.Second, cfg.AITimeout())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
listen:
  addr: ":9090"
store:
  backend: redis
  redis:
    url: redis://cache:6379/1
    ttl: 24h
ai:
  provider: anthropic
  timeout: 5s
  options:
    model: claude-sonnet-4-20250514
    input_usd_per_1m: 3.0
    output_usd_per_1m: 15.0
security:
  mask_pii: true
log:
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen.Addr)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis://cache:6379/1", cfg.Store.Redis.URL)
	assert.Equal(t, 24*time.Hour, cfg.RedisTTL())
	assert.Equal(t, 5*time.Second, cfg.AITimeout())
	assert.True(t, cfg.Security.MaskPII)
	assert.Equal(t, "debug", cfg.Log.Level)

	var opts config.AnthropicOptions
	require.NoError(t, cfg.DecodeAIOptions(&opts))
	assert.Equal(t, "claude-sonnet-4-20250514", opts.Model)
	assert.InDelta(t, 3.0, opts.InputUSDPer1M, 1e-9)
	assert.InDelta(t, 15.0, opts.OutputUSDPer1M, 1e-9)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: memory
`)
	t.Setenv("MINDSHIFT_STORE_BACKEND", "redis")
	t.Setenv("MINDSHIFT_REDIS_URL", "redis://override:6379")
	t.Setenv("MINDSHIFT_LOG_LEVEL", "warn")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis://override:6379", cfg.Store.Redis.URL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad backend":  "store:\n  backend: cassandra\n",
		"bad provider": "ai:\n  provider: bard\n",
		"bad timeout":  "ai:\n  timeout: soon\n",
		"bad ttl":      "store:\n  redis:\n    ttl: never\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}
