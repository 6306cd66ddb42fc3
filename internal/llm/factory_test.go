package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	p, err := NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &deadlineProvider{}, p)
	assert.Equal(t, defaultOllamaModel, p.ModelID())

	cfg.Timeout = 0
	p, err = NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &Recorder{}, p)

	cfg.Retry.MaxAttempts = 3
	p, err = NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &RetryProvider{}, p)

	cfg.Provider = "mock"
	p, err = NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &MockProvider{}, p)
}

func TestNewProvider_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "anthropic"
	_, err := NewProvider(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, "anthropic provider")

	cfg.Provider = "palm"
	_, err = NewProvider(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, "unknown")
}

func TestDeadlineProvider(t *testing.T) {
	inner := &ctxProbe{}
	d := &deadlineProvider{inner: inner, timeout: time.Minute}

	_, err := d.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.True(t, inner.hadDeadline)
	assert.Equal(t, "probe", d.ModelID())
}

type ctxProbe struct{ hadDeadline bool }

func (p *ctxProbe) ModelID() string { return "probe" }

func (p *ctxProbe) Generate(ctx context.Context, _ Request) (*Response, error) {
	_, p.hadDeadline = ctx.Deadline()
	return &Response{}, nil
}
