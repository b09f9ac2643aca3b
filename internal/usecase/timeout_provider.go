package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"miseai/internal/domain/entity"
	"miseai/internal/domain/repository"
	"miseai/internal/metrics"

	"go.uber.org/zap"
)

const defaultCallTimeout = 60 * time.Second

// TimeoutProvider bounds every call to the wrapped provider. It never retries:
// the completeness retry in RecipeGenerator is the only retry in the system.
type TimeoutProvider struct {
	next    repository.ChatCompleter
	timeout time.Duration // The Safety Layer Timeout
	logger  *zap.Logger
}

func NewTimeoutProvider(next repository.ChatCompleter, timeout time.Duration, logger *zap.Logger) *TimeoutProvider {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &TimeoutProvider{next: next, timeout: timeout, logger: logger}
}

func (p *TimeoutProvider) Complete(ctx context.Context, req entity.ChatRequest) (*entity.ChatCompletion, error) {
	// Scoped so one slow upstream call can't hang the request.
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.next.Complete(callCtx, req)
	elapsed := time.Since(start)

	if err != nil {
		outcome := "error"
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			outcome = "timeout"
			err = fmt.Errorf("llm call exceeded %s: %w", p.timeout, err)
		}
		metrics.ObserveLLMRequest(req.Model, outcome, elapsed)
		p.logger.Error("llm call failed",
			zap.String("model", req.Model),
			zap.String("outcome", outcome),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}

	metrics.ObserveLLMRequest(req.Model, "ok", elapsed)
	resp.Latency = elapsed
	if resp.Model == "" {
		resp.Model = req.Model
	}
	p.logger.Debug("llm call",
		zap.String("model", resp.Model),
		zap.Int("max_tokens", req.Sampling.MaxTokens),
		zap.Int("tokens", resp.TokenCount),
		zap.Duration("elapsed", elapsed))
	return resp, nil
}
