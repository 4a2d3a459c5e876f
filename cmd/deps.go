package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/ai"
	"github.com/spigell/intern-match/internal/ai/gemini"
	"github.com/spigell/intern-match/internal/ai/openai"
	"github.com/spigell/intern-match/internal/catalog"
	"github.com/spigell/intern-match/internal/logger"
	"github.com/spigell/intern-match/internal/matching"
	"github.com/spigell/intern-match/internal/secrets"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"
)

// newCatalogStore builds the configured store. The returned cleanup closes
// any pooled connections.
func newCatalogStore(ctx context.Context, cfg *CatalogConfig, log *zap.Logger) (catalog.Store, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("catalog configuration is required")
	}

	var (
		store   catalog.Store
		closers []func()
	)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	source := strings.ToLower(strings.TrimSpace(cfg.Source))
	storeLogger := logger.WithFields(log, zap.String(logger.FieldCatalog, source))

	switch source {
	case "", "file":
		store = catalog.NewFileStore(cfg.File)
	case "http":
		if cfg.HTTP == nil || strings.TrimSpace(cfg.HTTP.URL) == "" {
			return nil, nil, errors.New("catalog.http.url is required for the http catalog")
		}
		token := ""
		if cfg.HTTP.Token != "" || cfg.HTTP.TokenFile != "" {
			var err error
			token, err = secrets.Load(secrets.Source{
				Name:  "catalog token",
				Value: cfg.HTTP.Token,
				File:  cfg.HTTP.TokenFile,
			})
			if err != nil {
				return nil, nil, err
			}
		}
		store = catalog.NewHTTPStore(cfg.HTTP.URL, token, cfg.HTTP.Timeout, storeLogger)
	case "postgres":
		if cfg.Postgres == nil {
			return nil, nil, errors.New("catalog.postgres is required for the postgres catalog")
		}
		dsn, err := secrets.Load(secrets.Source{
			Name:  "postgres dsn",
			Value: cfg.Postgres.DSN,
			Env:   "DATABASE_URL",
			File:  cfg.Postgres.DSNFile,
		})
		if err != nil {
			return nil, nil, err
		}
		pool, err := catalog.NewPostgresPool(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", catalog.ErrCatalogUnavailable, err)
		}
		closers = append(closers, pool.Close)
		store = catalog.NewPostgresStore(pool, cfg.Postgres.Table, storeLogger)
	default:
		return nil, nil, fmt.Errorf("unsupported catalog source: %s", cfg.Source)
	}

	if cfg.Cache != nil && strings.TrimSpace(cfg.Cache.RedisURL) != "" {
		client, err := catalog.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			// The cache is optional; serve from the store directly.
			storeLogger.Warn("catalog cache disabled", zap.Error(err))
		} else {
			closers = append(closers, func() { client.Close() })
			store = catalog.NewCachedStore(store, catalog.NewRedisCache(client), cfg.Cache.TTL, storeLogger)
		}
	}

	return store, cleanup, nil
}

func newProfileExtractor(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.ProfileExtractor, error) {
	if cfg == nil {
		return nil, errors.New("ai configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", providerGemini:
		if cfg.Gemini == nil {
			return nil, errors.New("ai.gemini configuration is required")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			Env:   "GEMINI_API_KEY",
			File:  cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		genLogger := logger.WithCommonFields(log, providerGemini, cfg.Gemini.Model).With(
			zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
		)

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
		if err != nil {
			return nil, err
		}

		return gemini.NewExtractor(generator, cfg.MaxLogLength, logger.WithCommonFields(log, providerGemini, generator.Model())), nil
	case providerOpenAI:
		if cfg.OpenAI == nil {
			return nil, errors.New("ai.openai configuration is required")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			Env:   "OPENAI_API_KEY",
			File:  cfg.OpenAI.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		model := cfg.OpenAI.Model
		if model == "" {
			model = openai.DefaultModel
		}

		return openai.NewExtractor(apiKey, model, cfg.MaxLogLength, logger.WithCommonFields(log, providerOpenAI, model))
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newScorer(cfg *MatchConfig) *matching.Scorer {
	if cfg == nil || cfg.Seed == 0 {
		return matching.NewScorer(nil)
	}
	return matching.NewScorer(matching.SeededSource(cfg.Seed))
}

func matchLimit(cfg *MatchConfig) int {
	if cfg == nil {
		return matching.DefaultLimit
	}
	return cfg.Limit
}
