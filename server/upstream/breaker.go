package upstream

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/glintlabs/glint/config"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrUnavailable is returned while the breaker is open and generation calls
// are being rejected without reaching the upstream.
var ErrUnavailable = errors.New("generation API temporarily unavailable")

// Breaker wraps a Generator with a circuit breaker so a failing upstream
// sheds load quickly instead of tying up request handlers.
type Breaker struct {
	inner Generator
	cb    *gobreaker.CircuitBreaker
}

var _ Generator = (*Breaker)(nil)

// NewBreaker wraps inner according to the breaker configuration.
func NewBreaker(inner Generator, cfg config.CircuitBreakerConfig, logger *zap.Logger) *Breaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "upstream",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Breaker{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

// Generate forwards to the wrapped Generator through the breaker.
func (b *Breaker) Generate(ctx context.Context, model string, parts []Part) (json.RawMessage, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, model, parts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		return nil, err
	}
	return result.(json.RawMessage), nil
}
