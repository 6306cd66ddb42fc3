package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"time"
)

// Backoff is an exponential delay schedule with ±20% jitter.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
}

// Delay returns the wait before retry n (0-based), without jitter.
func (b Backoff) Delay(n int) time.Duration {
	d := float64(b.Initial)
	for range n {
		d *= b.Factor
		if b.Max > 0 && d >= float64(b.Max) {
			return b.Max
		}
	}
	return time.Duration(d)
}

func (b Backoff) jittered(n int) time.Duration {
	d := float64(b.Delay(n))
	return time.Duration(d + d*0.2*(2*rand.Float64()-1))
}

// RetryProvider retries transient failures. A rejected answer is retried
// once since models rarely fail the same schema twice.
type RetryProvider struct {
	inner    Provider
	attempts int
	backoff  Backoff
	sleep    func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p. cfg.MaxAttempts counts the first call.
func WithRetry(p Provider, cfg RetryConfig) *RetryProvider {
	return &RetryProvider{
		inner:    p,
		attempts: max(cfg.MaxAttempts, 1),
		backoff:  Backoff{Initial: cfg.InitialWait, Max: cfg.MaxWait, Factor: cfg.Multiplier},
		sleep:    sleepCtx,
	}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	rejected := 0
	for n := 0; ; n++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var bad *InvalidOutputError
		if errors.As(err, &bad) {
			rejected++
		}
		if n+1 >= r.attempts || rejected > 1 || !transient(err) {
			return nil, err
		}

		wait := r.backoff.jittered(n)
		var rl *RateLimitError
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			wait = rl.RetryAfter
		}
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// transient reports whether another attempt could succeed.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var trunc *TruncatedError
	if errors.As(err, &trunc) {
		return false
	}
	var un *UnavailableError
	if errors.As(err, &un) {
		// Client errors such as a bad key or an unknown model do not heal.
		return un.Status == 0 || un.Status == http.StatusRequestTimeout || un.Status >= 500
	}
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
