package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// FactoryOption configures NewDashboardCacheFromConfig
type FactoryOption func(*factory)

type factory struct {
	logger        *zap.Logger
	allowFallback bool
}

// WithLogger sets the logger used to report the chosen backend
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithPassThroughFallback controls whether an unreachable Redis yields a
// pass-through cache instead of an error. Default is true.
func WithPassThroughFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowFallback = allow
	}
}

// NewDashboardCacheFromConfig connects to Redis and builds the dashboard cache.
// The returned close function releases the client and is never nil.
func NewDashboardCacheFromConfig(cfg RedisConfig, ttl time.Duration, opts ...FactoryOption) (*DashboardCache, func() error, error) {
	f := &factory{logger: zap.NewNop(), allowFallback: true}
	for _, opt := range opts {
		opt(f)
	}

	client, err := NewRedisClient(cfg)
	if err == nil {
		f.logger.Info("using Redis dashboard cache", zap.String("addr", cfg.Addr()), zap.Duration("ttl", ttl))
		return NewDashboardCache(client, ttl), client.Close, nil
	}

	if !f.allowFallback {
		return nil, nil, fmt.Errorf("redis required for dashboard cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, dashboard metrics will be computed on every request", zap.Error(err))
	return NewDashboardCache(nil, ttl), func() error { return nil }, nil
}
