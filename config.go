package taskpool

import (
	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ygrebnov/taskpool/metrics"
)

// config holds Pool configuration assembled from options.
type config struct {
	// Logger receives lifecycle events (debug) and detached-task failures
	// (warn). Default: zap.NewNop().
	Logger *zap.Logger

	// Metrics provides the pool's instruments.
	// Default: metrics.Nop().
	Metrics metrics.Provider

	// Limiter, when non-nil, paces task execution: each worker waits on it
	// before invoking a dequeued task. Default: nil (no pacing).
	Limiter *rate.Limiter
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Logger:  zap.NewNop(),
		Metrics: metrics.Nop(),
		Limiter: nil,
	}
}

// Option configures a Pool. Use New(ctx, workers, opts...) to construct a
// Pool via options. Options return an error on invalid input instead of
// panicking.
type Option func(*config) error

// WithLogger sets the logger used for lifecycle events and detached-task
// failures. The logger must not be nil.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}

// WithMetrics sets the metrics provider used for the pool's instruments.
// The provider must not be nil; use metrics.Nop() to discard measurements.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithRateLimiter paces task execution across all workers using the given
// limiter. The limiter must not be nil.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithRateLimiter requires a non-nil limiter"))
		}
		cfg.Limiter = l
		return nil
	}
}
