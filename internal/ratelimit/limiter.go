package ratelimit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/logger"
)

// Config holds the rate limit of one upstream provider
type Config struct {
	// Name identifies the provider, it is part of the Redis key
	Name string
	// RequestsPerSecond is the sustained request rate shared by every replica
	RequestsPerSecond int
	// Burst is the number of requests allowed above the sustained rate
	Burst int
	// RedisKeyPrefix prefixes the distributed bucket key
	RedisKeyPrefix string
	// RedisRetryInterval is how long the local bucket serves requests after a Redis error
	// before the distributed bucket is tried again
	RedisRetryInterval time.Duration
}

// Limiter blocks callers until a request token is available
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit_limiter.go -package=mocks -mock_names=Limiter=MockRateLimiter
type Limiter interface {
	// Wait blocks until a token is acquired or ctx is done
	Wait(ctx context.Context) error
}

func validateConfig(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive for %s", cfg.Name)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerSecond
	}
	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = "ff-confirmator:ratelimit:"
	}
	if cfg.RedisRetryInterval <= 0 {
		cfg.RedisRetryInterval = 30 * time.Second
	}
	return nil
}

// NewLocalLimiter creates an in-process token bucket limiter
func NewLocalLimiter(cfg Config) (Limiter, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst), nil
}

type redisLimiter struct {
	config      Config
	distributed adapter.RedisRateLimiter
	// preFilter keeps a single replica from hammering Redis with denied requests
	preFilter      *rate.Limiter
	local          *rate.Limiter
	clock          adapter.Clock
	redisAvailable atomic.Bool
	// unavailableSince is the unix nano time of the last Redis error
	unavailableSince atomic.Int64
}

// NewRedisLimiter creates a limiter sharing its bucket with every replica through Redis.
// When Redis fails the limiter falls back to the local bucket and tries Redis again
// once RedisRetryInterval has passed.
func NewRedisLimiter(cfg Config, rc adapter.RedisClient, clock adapter.Clock) (Limiter, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l := &redisLimiter{
		config:      cfg,
		distributed: rc.NewRateLimiter(),
		preFilter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		local:       rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		clock:       clock,
	}
	l.redisAvailable.Store(true)

	return l, nil
}

func (l *redisLimiter) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !l.distributedAvailable(ctx) {
			return l.local.Wait(ctx)
		}

		allowed, retryAfter, err := l.tryDistributed(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			l.unavailableSince.Store(l.clock.Now().UnixNano())
			l.redisAvailable.Store(false)
			logger.WarnCtx(ctx, "Redis rate limiter error, falling back to local",
				zap.String("provider", l.config.Name),
				zap.Error(err))
			continue
		}
		if allowed {
			return nil
		}

		// Spread retries over 50-150% of retryAfter
		jitter := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(jitter):
		}
	}
}

// distributedAvailable reports whether the Redis bucket should be used,
// re-enabling it once the retry interval after the last error has passed
func (l *redisLimiter) distributedAvailable(ctx context.Context) bool {
	if l.redisAvailable.Load() {
		return true
	}

	since := time.Unix(0, l.unavailableSince.Load())
	if l.clock.Since(since) < l.config.RedisRetryInterval {
		return false
	}

	if l.redisAvailable.CompareAndSwap(false, true) {
		logger.InfoCtx(ctx, "Retrying Redis rate limiter", zap.String("provider", l.config.Name))
	}
	return true
}

func (l *redisLimiter) tryDistributed(ctx context.Context) (bool, time.Duration, error) {
	if err := l.preFilter.Wait(ctx); err != nil {
		return false, 0, err
	}

	res, err := l.distributed.Allow(ctx, l.config.RedisKeyPrefix+l.config.Name, redis_rate.Limit{
		Rate:   l.config.RequestsPerSecond,
		Burst:  l.config.Burst,
		Period: time.Second,
	})
	if err != nil {
		return false, 0, err
	}

	if res.Allowed == 0 {
		logger.DebugCtx(ctx, "Rate limit token unavailable, waiting",
			zap.String("provider", l.config.Name),
			zap.Duration("retry_after", res.RetryAfter),
			zap.Int("remaining", res.Remaining))
		return false, res.RetryAfter, nil
	}

	return true, 0, nil
}
