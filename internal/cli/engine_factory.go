package cli

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"

	mindshift "github.com/mindshifting/mindshift"
	"github.com/mindshifting/mindshift/internal/config"
	"github.com/mindshifting/mindshift/pkg/adapters/anthropic"
	"github.com/mindshifting/mindshift/pkg/adapters/memory"
	"github.com/mindshifting/mindshift/pkg/adapters/openai"
	redisadapter "github.com/mindshifting/mindshift/pkg/adapters/redis"
	"github.com/mindshifting/mindshift/pkg/observability"
	"github.com/mindshifting/mindshift/pkg/persistence/middleware"
	"github.com/mindshifting/mindshift/pkg/ports"
)

var (
	collectorOnce   sync.Once
	sharedCollector *observability.Collector
)

// BuildEngine assembles an engine from configuration: store backend,
// at-rest middleware, generative adapter, distributed locking and
// metrics. The returned cleanup closes backend connections and must be
// called on shutdown.
func BuildEngine(cfg config.Config, logger *slog.Logger) (*mindshift.Engine, func() error, error) {
	cleanup := func() error { return nil }

	store, locker, storeCleanup, err := buildStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if storeCleanup != nil {
		cleanup = storeCleanup
	}

	store, err = wrapSecurity(store, cfg.Security)
	if err != nil {
		return nil, nil, err
	}

	generator, err := buildGenerator(cfg)
	if err != nil {
		return nil, nil, err
	}

	// The collector registers on the process-wide default registry, so
	// it is created once even if several engines get built.
	collectorOnce.Do(func() {
		sharedCollector = observability.NewCollector(prometheus.DefaultRegisterer)
	})
	collector := sharedCollector

	opts := []mindshift.Option{
		mindshift.WithStore(store),
		mindshift.WithLogger(logger),
		mindshift.WithHooks(collector.Hooks()),
	}
	if locker != nil {
		opts = append(opts, mindshift.WithLocker(locker))
	}
	if generator != nil {
		opts = append(opts, mindshift.WithGenerator(generator))
		logger.Info("generative adapter enabled",
			"provider", cfg.AI.Provider,
			"model", generator.ModelName(),
		)
	}
	if d := cfg.AITimeout(); d > 0 {
		opts = append(opts, mindshift.WithAITimeout(d))
	}

	return mindshift.New(opts...), cleanup, nil
}

func buildStore(cfg config.Config, logger *slog.Logger) (ports.SessionStore, ports.DistributedLocker, func() error, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return memory.NewStore(), nil, nil, nil

	case "redis":
		redisOpts, err := backend.ParseURL(cfg.Store.Redis.URL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(redisOpts)

		storeOpts := []redisadapter.Option{}
		if cfg.Store.Redis.Prefix != "" {
			storeOpts = append(storeOpts, redisadapter.WithPrefix(cfg.Store.Redis.Prefix))
		}
		if ttl := cfg.RedisTTL(); ttl > 0 {
			storeOpts = append(storeOpts, redisadapter.WithTTL(ttl))
		}

		store := redisadapter.NewFromClient(client, storeOpts...)
		locker := redisadapter.NewLocker(client, cfg.Store.Redis.Prefix)
		logger.Info("using redis session store", "url", redisOpts.Addr)
		return store, locker, client.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}

func wrapSecurity(store ports.SessionStore, sec config.SecurityConfig) (ports.SessionStore, error) {
	var mws []middleware.Middleware

	if sec.MaskPII {
		patterns := sec.PIIPatterns
		if len(patterns) == 0 {
			patterns = middleware.DefaultPIIPatterns
		}
		mws = append(mws, middleware.NewPIIMiddleware(patterns))
	}

	if sec.EncryptionKey != "" {
		active, err := base64.StdEncoding.DecodeString(sec.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		if len(active) != 32 {
			return nil, fmt.Errorf("encryption key must decode to 32 bytes, got %d", len(active))
		}
		var fallbacks [][]byte
		for i, fk := range sec.FallbackKeys {
			decoded, err := base64.StdEncoding.DecodeString(fk)
			if err != nil {
				return nil, fmt.Errorf("invalid fallback key %d: %w", i, err)
			}
			fallbacks = append(fallbacks, decoded)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		}))
	}

	return middleware.Chain(store, mws...), nil
}

func buildGenerator(cfg config.Config) (ports.Generator, error) {
	switch cfg.AI.Provider {
	case "", "none":
		return nil, nil

	case "anthropic":
		var opts config.AnthropicOptions
		if err := cfg.DecodeAIOptions(&opts); err != nil {
			return nil, err
		}
		genOpts := []anthropic.Option{}
		if opts.Model != "" {
			genOpts = append(genOpts, anthropic.WithModel(opts.Model))
		}
		if opts.InputUSDPer1M > 0 || opts.OutputUSDPer1M > 0 {
			genOpts = append(genOpts, anthropic.WithPricing(anthropic.Pricing{
				InputPerMTok:  opts.InputUSDPer1M,
				OutputPerMTok: opts.OutputUSDPer1M,
			}))
		}
		return anthropic.New(os.Getenv("ANTHROPIC_API_KEY"), genOpts...), nil

	case "openai":
		var opts config.OpenAIOptions
		if err := cfg.DecodeAIOptions(&opts); err != nil {
			return nil, err
		}
		genOpts := []openai.Option{}
		if opts.Model != "" {
			genOpts = append(genOpts, openai.WithModel(opts.Model))
		}
		if opts.InputUSDPer1M > 0 || opts.OutputUSDPer1M > 0 {
			genOpts = append(genOpts, openai.WithPricing(openai.Pricing{
				InputPerMTok:  opts.InputUSDPer1M,
				OutputPerMTok: opts.OutputUSDPer1M,
			}))
		}
		return openai.New(os.Getenv("OPENAI_API_KEY"), genOpts...), nil

	default:
		return nil, fmt.Errorf("unknown ai provider: %q", cfg.AI.Provider)
	}
}
