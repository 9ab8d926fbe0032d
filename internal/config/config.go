// Package config loads the service configuration from YAML with
// environment overrides. Provider-specific AI options stay an opaque
// map in the file and get decoded per provider with mapstructure.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the service binaries.
type Config struct {
	Listen   ListenConfig   `yaml:"listen"`
	Store    StoreConfig    `yaml:"store"`
	AI       AIConfig       `yaml:"ai"`
	Security SecurityConfig `yaml:"security"`
	Log      LogConfig      `yaml:"log"`
}

type ListenConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig selects the session store backend.
type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend string      `yaml:"backend"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix"`
	// TTL is a Go duration string ("24h"). Empty means no expiry.
	TTL string `yaml:"ttl"`
}

// AIConfig selects the generative adapter. Options is provider-shaped;
// see AnthropicOptions and OpenAIOptions.
type AIConfig struct {
	// Provider is "none", "anthropic" or "openai". API keys come from
	// the provider SDK's usual environment variables, never the file.
	Provider string `yaml:"provider"`
	// Timeout is a Go duration string ("10s").
	Timeout string         `yaml:"timeout"`
	Options map[string]any `yaml:"options"`
}

// AnthropicOptions are the AI options understood by the anthropic provider.
type AnthropicOptions struct {
	Model          string  `mapstructure:"model"`
	InputUSDPer1M  float64 `mapstructure:"input_usd_per_1m"`
	OutputUSDPer1M float64 `mapstructure:"output_usd_per_1m"`
}

// OpenAIOptions are the AI options understood by the openai provider.
type OpenAIOptions struct {
	Model          string  `mapstructure:"model"`
	InputUSDPer1M  float64 `mapstructure:"input_usd_per_1m"`
	OutputUSDPer1M float64 `mapstructure:"output_usd_per_1m"`
}

// SecurityConfig controls at-rest protection of session data.
type SecurityConfig struct {
	// EncryptionKey is base64, 32 bytes decoded. Empty disables sealing.
	EncryptionKey string   `yaml:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys"`
	MaskPII       bool     `yaml:"mask_pii"`
	// PIIPatterns overrides the default email/phone patterns.
	PIIPatterns []string `yaml:"pii_patterns"`
}

type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Listen: ListenConfig{Addr: ":8080"},
		Store:  StoreConfig{Backend: "memory", Redis: RedisConfig{URL: "redis://localhost:6379"}},
		AI:     AIConfig{Provider: "none", Timeout: "10s"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error; the defaults
// plus environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Listen.Addr, "MINDSHIFT_LISTEN_ADDR")
	setFromEnv(&c.Store.Backend, "MINDSHIFT_STORE_BACKEND")
	setFromEnv(&c.Store.Redis.URL, "MINDSHIFT_REDIS_URL")
	setFromEnv(&c.AI.Provider, "MINDSHIFT_AI_PROVIDER")
	setFromEnv(&c.AI.Timeout, "MINDSHIFT_AI_TIMEOUT")
	setFromEnv(&c.Security.EncryptionKey, "MINDSHIFT_ENCRYPTION_KEY")
	setFromEnv(&c.Log.Level, "MINDSHIFT_LOG_LEVEL")
}

func setFromEnv(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	switch c.AI.Provider {
	case "", "none", "anthropic", "openai":
	default:
		return fmt.Errorf("unknown ai provider: %q", c.AI.Provider)
	}
	if c.AI.Timeout != "" {
		if _, err := time.ParseDuration(c.AI.Timeout); err != nil {
			return fmt.Errorf("invalid ai timeout: %w", err)
		}
	}
	if c.Store.Redis.TTL != "" {
		if _, err := time.ParseDuration(c.Store.Redis.TTL); err != nil {
			return fmt.Errorf("invalid redis ttl: %w", err)
		}
	}
	return nil
}

// AITimeout returns the parsed adapter timeout, or zero when unset.
func (c *Config) AITimeout() time.Duration {
	d, _ := time.ParseDuration(c.AI.Timeout)
	return d
}

// RedisTTL returns the parsed session expiry, or zero when unset.
func (c *Config) RedisTTL() time.Duration {
	d, _ := time.ParseDuration(c.Store.Redis.TTL)
	return d
}

// DecodeAIOptions decodes the provider-shaped options map into out.
func (c *Config) DecodeAIOptions(out any) error {
	if c.AI.Options == nil {
		return nil
	}
	if err := mapstructure.Decode(c.AI.Options, out); err != nil {
		return fmt.Errorf("invalid ai options for provider %q: %w", c.AI.Provider, err)
	}
	return nil
}
