package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"miseai/internal/domain/entity"
	"miseai/internal/domain/repository"
	"miseai/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const retryTokenHeadroom = 500

var (
	firstSampling = entity.Sampling{Temperature: 0.7, TopP: 0.9, FrequencyPenalty: 0.1, PresencePenalty: 0.1}
	// Lower variance for the second attempt. No penalties.
	retrySampling = entity.Sampling{Temperature: 0.5, TopP: 0.8}
)

type RecipeGenerator struct {
	provider     repository.ChatCompleter
	usageLimiter repository.UsageLimiter
	model        string
	logger       *zap.Logger
	now          func() time.Time
	usageTimeout time.Duration
}

type GeneratorOption func(*RecipeGenerator)

// WithUsageLimiter enables per-client token quotas. A nil limiter disables them.
func WithUsageLimiter(l repository.UsageLimiter) GeneratorOption {
	return func(g *RecipeGenerator) {
		g.usageLimiter = l
	}
}

func WithClock(now func() time.Time) GeneratorOption {
	return func(g *RecipeGenerator) {
		g.now = now
	}
}

func NewRecipeGenerator(provider repository.ChatCompleter, model string, logger *zap.Logger, opts ...GeneratorOption) *RecipeGenerator {
	g := &RecipeGenerator{
		provider:     provider,
		model:        model,
		logger:       logger,
		now:          time.Now,
		usageTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate asks the provider for the requested recipes and re-asks once, with
// stricter instructions, when the answer enumerates fewer items than the
// prompt asked for. The second answer is returned even if it is still short;
// ValidationPassed reports that.
func (g *RecipeGenerator) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", entity.ErrInvalidRequest)
	}
	if req.RecipeType == "" {
		req.RecipeType = entity.DefaultRecipeType
	}

	// 1. Check quota
	if err := g.checkQuota(ctx, req.ClientKey); err != nil {
		return nil, err
	}

	// 2. Derive the expected count and budget
	expected := ExtractExpectedCount(req.Prompt)
	budget := TokenBudget(expected)

	log := g.logger.With(zap.String("recipe_type", req.RecipeType))
	log.Info("recipe request",
		zap.String("prompt", req.Prompt),
		countField(expected),
		zap.Int("token_budget", budget))

	// 3. First attempt
	basePrompt := chefPrompt(req.Prompt)
	resp, err := g.complete(ctx, chefSystemInstruction, basePrompt, budget, firstSampling)
	if err != nil {
		metrics.IncError("generator", "first_attempt")
		return nil, fmt.Errorf("%w: %v", entity.ErrGenerationFailed, err)
	}
	tokens := resp.TokenCount
	log.Info("generated response", zap.Int("chars", len(resp.Content)), zap.Int("items", CountItems(resp.Content)))

	// 4. One bounded retry when incomplete
	retried := false
	if expected != nil && !ValidateCompleteness(resp.Content, expected) {
		log.Warn("incomplete response, retrying",
			zap.Int("expected_count", *expected),
			zap.Int("found", CountItems(resp.Content)))
		metrics.IncGenerationRetry()

		n := *expected
		resp, err = g.complete(ctx, retrySystemInstruction(n), retryPrompt(n, basePrompt), budget+retryTokenHeadroom, retrySampling)
		if err != nil {
			metrics.IncError("generator", "retry_attempt")
			return nil, fmt.Errorf("%w: retry: %v", entity.ErrGenerationFailed, err)
		}
		tokens += resp.TokenCount
		retried = true
		log.Info("retry response", zap.Int("chars", len(resp.Content)), zap.Int("items", CountItems(resp.Content)))
	}

	passed := ValidateCompleteness(resp.Content, expected)
	metrics.IncValidation(passed)

	// 5. Background: record usage
	g.recordUsage(req.ClientKey, tokens)

	return &entity.GenerationResult{
		ID:               uuid.NewString(),
		Recipe:           resp.Content,
		Timestamp:        g.now(),
		ExpectedCount:    expected,
		ValidationPassed: passed,
		Retried:          retried,
		Model:            resp.Model,
		TokenCount:       tokens,
	}, nil
}

func (g *RecipeGenerator) complete(ctx context.Context, system, user string, maxTokens int, sampling entity.Sampling) (*entity.ChatCompletion, error) {
	sampling.MaxTokens = maxTokens
	return g.provider.Complete(ctx, entity.ChatRequest{
		Model: g.model,
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: system},
			{Role: entity.RoleUser, Content: user},
		},
		Sampling: sampling,
	})
}

// checkQuota fails open: quota storage problems never block generation.
func (g *RecipeGenerator) checkQuota(ctx context.Context, clientKey string) error {
	if g.usageLimiter == nil || clientKey == "" {
		return nil
	}
	allowed, err := g.usageLimiter.CheckLimit(ctx, clientKey)
	if err != nil {
		metrics.IncError("quota", "check")
		g.logger.Warn("quota check failed", zap.String("client", clientKey), zap.Error(err))
		return nil
	}
	if !allowed {
		return entity.ErrQuotaExceeded
	}
	return nil
}

func (g *RecipeGenerator) recordUsage(clientKey string, tokens int) {
	if g.usageLimiter == nil || clientKey == "" || tokens <= 0 {
		return
	}
	go func() {
		// The request context may already be gone.
		bgCtx, cancel := context.WithTimeout(context.Background(), g.usageTimeout)
		defer cancel()
		if err := g.usageLimiter.Increment(bgCtx, clientKey, tokens); err != nil {
			metrics.IncError("quota", "increment")
			g.logger.Warn("usage increment failed", zap.String("client", clientKey), zap.Error(err))
		}
	}()
}

func countField(expected *int) zap.Field {
	if expected == nil {
		return zap.Skip()
	}
	return zap.Int("expected_count", *expected)
}
