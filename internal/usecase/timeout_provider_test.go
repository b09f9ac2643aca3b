package usecase

import (
	"context"
	"testing"
	"time"

	"miseai/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type blockingProvider struct{}

func (blockingProvider) Complete(ctx context.Context, _ entity.ChatRequest) (*entity.ChatCompletion, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type modelessProvider struct{}

func (modelessProvider) Complete(context.Context, entity.ChatRequest) (*entity.ChatCompletion, error) {
	return &entity.ChatCompletion{Content: "1. Ramen", TokenCount: 7}, nil
}

func TestTimeoutProvider_Timeout(t *testing.T) {
	p := NewTimeoutProvider(blockingProvider{}, 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	_, err := p.Complete(context.Background(), entity.ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "exceeded 20ms")
	assert.Less(t, time.Since(start), time.Second)
}

func TestTimeoutProvider_CallerCancel(t *testing.T) {
	p := NewTimeoutProvider(blockingProvider{}, time.Minute, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Complete(ctx, entity.ChatRequest{Model: "m"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTimeoutProvider_FillsModel(t *testing.T) {
	p := NewTimeoutProvider(modelessProvider{}, 0, zap.NewNop())

	resp, err := p.Complete(context.Background(), entity.ChatRequest{Model: "llama3-70b-8192"})
	require.NoError(t, err)
	assert.Equal(t, "llama3-70b-8192", resp.Model)
	assert.Equal(t, 7, resp.TokenCount)
	assert.Equal(t, defaultCallTimeout, p.timeout)
}
