package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/wenyan/internal/store"
)

// NewProvider builds the configured provider. Calls pass through a
// timeout, then retries, then the event recorder, then the vendor. events
// may be nil.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *slog.Logger) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "ollama":
		base, err = NewOllamaProvider(cfg.Ollama)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", cfg.Provider, err)
	}

	var p Provider = WithRecorder(base, cfg.Provider, events, log)
	if cfg.Retry.MaxAttempts > 1 {
		p = WithRetry(p, cfg.Retry)
	}
	if cfg.Timeout > 0 {
		p = &deadlineProvider{inner: p, timeout: cfg.Timeout}
	}
	return p, nil
}

type deadlineProvider struct {
	inner   Provider
	timeout time.Duration
}

func (d *deadlineProvider) ModelID() string { return d.inner.ModelID() }

func (d *deadlineProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.inner.Generate(ctx, req)
}
