package main

import (
	"context"
	"fmt"

	"miseai/internal/adapter/client"
	"miseai/internal/adapter/imaging"
	"miseai/internal/adapter/ocr"
	"miseai/internal/adapter/store"
	"miseai/internal/config"
	"miseai/internal/domain/entity"
	"miseai/internal/domain/repository"
	"miseai/internal/logging"
	"miseai/internal/usecase"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds the wired usecases shared by every subcommand.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	generator  *usecase.RecipeGenerator
	extractor  *usecase.OCRExtractor
	structurer *usecase.RecipeStructurer
	closers    []func() error
}

func newApp(ctx context.Context, envFiles []string) (*app, error) {
	var warnings []string
	cfg, err := config.Load(func(msg string) { warnings = append(warnings, msg) }, envFiles...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	a := &app{cfg: cfg, logger: logger}

	provider, err := newChatProvider(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	bounded := usecase.NewTimeoutProvider(provider, cfg.LLM.Timeout, logger.Named("llm"))

	var opts []usecase.GeneratorOption
	if cfg.QuotaEnabled() {
		// Redis for the daily token quota
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Quota.RedisAddr})
		a.closers = append(a.closers, rdb.Close)
		opts = append(opts, usecase.WithUsageLimiter(store.NewRedisLimiter(rdb, cfg.Quota.TokenLimit)))
		logger.Info("token quota enabled", zap.String("redis", cfg.Quota.RedisAddr), zap.Int("limit", cfg.Quota.TokenLimit))
	}

	a.generator = usecase.NewRecipeGenerator(bounded, cfg.LLM.Model, logger.Named("generator"), opts...)
	a.structurer = usecase.NewRecipeStructurer(bounded, cfg.LLM.Model, logger.Named("structurer"))
	a.extractor = usecase.NewOCRExtractor(
		ocr.NewTesseractRecognizer(),
		ocr.NewFitzRasterizer(),
		imaging.NewPreprocessor(),
		usecase.OCRConfig{
			Options: entity.OCROptions{
				Languages:   cfg.OCR.Languages,
				PageSegMode: cfg.OCR.PageSegMode,
			},
			DPI:         cfg.OCR.DPI,
			PageWorkers: cfg.OCR.PageWorkers,
		},
		logger.Named("ocr"),
	)
	return a, nil
}

func newChatProvider(ctx context.Context, cfg config.LLMConfig) (repository.ChatCompleter, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		genaiClient, err := client.NewGenAIClient(ctx, cfg.GoogleAPIKey, cfg.GoogleProject, cfg.GoogleLocation)
		if err != nil {
			return nil, fmt.Errorf("failed to init genai client: %w", err)
		}
		return client.NewGeminiClientFromClient(genaiClient, cfg.Model), nil
	default:
		return client.NewOpenAICompatClient(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	}
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
