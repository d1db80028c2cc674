package taskpool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ygrebnov/taskpool/metrics"
)

func TestOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{name: "nil logger", opt: WithLogger(nil)},
		{name: "nil metrics provider", opt: WithMetrics(nil)},
		{name: "nil rate limiter", opt: WithRateLimiter(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[int](context.Background(), 1, tt.opt)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestOptions_NilOptionIsSkipped(t *testing.T) {
	p, err := New[int](context.Background(), 1, nil)
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestOptions_Valid(t *testing.T) {
	p, err := New[int](
		context.Background(),
		2,
		WithLogger(zap.NewNop()),
		WithMetrics(metrics.NewBasicProvider()),
		WithRateLimiter(rate.NewLimiter(rate.Every(time.Microsecond), 100)),
	)
	require.NoError(t, err)

	f, err := p.Submit(func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	v, err := f.Get()
	require.NoError(t, err)
	require.Equal(t, 1, v)

	require.NoError(t, p.Close())
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	require.NotNil(t, cfg.Logger)
	require.NotNil(t, cfg.Metrics)
	require.Nil(t, cfg.Limiter)
}
