package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sony/gobreaker"

	"github.com/weathercap/weathercap/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var defaultBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var errCircuitOpen = errors.New("circuit breaker open")

// fetchWithResilience runs fetch with retries, exponential backoff and a
// circuit breaker. The weather client itself never retries; this wrapper is
// the scheduler's own retry policy, and it only retries transient failures
// (network, rate limit) — auth, not-found and input errors fail fast.
func fetchWithResilience(
	ctx context.Context,
	cfg BackoffConfig,
	cb *gobreaker.CircuitBreaker,
	fetch func(ctx context.Context) error,
) error {
	if cfg.MaxRetries < 0 || cfg.InitialInterval <= 0 {
		return errors.New("invalid backoff configuration")
	}

	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_, err := cb.Execute(func() (interface{}, error) {
			return nil, fetch(ctx)
		})
		if err == nil {
			return nil
		}

		// If the circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		// Only transient failures are worth another attempt.
		if !weather.IsRetryable(err) {
			return err
		}

		lastErr = err
		if attempt >= cfg.MaxRetries {
			return lastErr
		}

		delay := cfg.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if cfg.MaxInterval > 0 && delay > cfg.MaxInterval {
			delay = cfg.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// next attempt
		}

		attempt++
	}
}
