package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/logger"
)

const keyPrefix = "ff-confirmator:lock:"

// Locker hands out exclusive, expiring locks keyed by name
//
//go:generate mockgen -source=lock.go -destination=../mocks/lock.go -package=mocks -mock_names=Locker=MockLocker,Lock=MockLock
type Locker interface {
	// Acquire takes the lock for key. It returns domain.ErrLockNotAcquired when the lock is held elsewhere.
	Acquire(ctx context.Context, key string) (Lock, error)
}

// Lock is a held lock
type Lock interface {
	// Refresh extends the lock TTL. It returns domain.ErrLockNotAcquired when the lock was lost.
	Refresh(ctx context.Context) error
	// Release gives the lock back. Releasing a lost lock is a no-op.
	Release(ctx context.Context) error
}

type redisLocker struct {
	client adapter.RedisClient
	ttl    time.Duration
}

// NewRedisLocker creates a locker backed by Redis SET NX with a random owner token
func NewRedisLocker(client adapter.RedisClient, ttl time.Duration) Locker {
	return &redisLocker{client: client, ttl: ttl}
}

func (l *redisLocker) Acquire(ctx context.Context, key string) (Lock, error) {
	token := uuid.NewString()
	redisKey := keyPrefix + key

	ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotAcquired, key)
	}

	logger.DebugCtx(ctx, "Lock acquired", zap.String("key", redisKey), zap.Duration("ttl", l.ttl))

	return &redisLock{client: l.client, key: redisKey, token: token, ttl: l.ttl}, nil
}

type redisLock struct {
	client adapter.RedisClient
	key    string
	token  string
	ttl    time.Duration
}

func (l *redisLock) Refresh(ctx context.Context) error {
	ok, err := l.client.CompareAndExpire(ctx, l.key, l.token, l.ttl)
	if err != nil {
		return fmt.Errorf("failed to refresh lock %s: %w", l.key, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrLockNotAcquired, l.key)
	}
	return nil
}

func (l *redisLock) Release(ctx context.Context) error {
	ok, err := l.client.CompareAndDelete(ctx, l.key, l.token)
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	if !ok {
		logger.WarnCtx(ctx, "Lock already expired or taken over", zap.String("key", l.key))
	}
	return nil
}

type localLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLocker creates an in-process locker for single replica deployments
func NewLocalLocker() Locker {
	return &localLocker{held: make(map[string]struct{})}
}

func (l *localLocker) Acquire(_ context.Context, key string) (Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotAcquired, key)
	}
	l.held[key] = struct{}{}

	return &localLock{locker: l, key: key}, nil
}

type localLock struct {
	locker *localLocker
	key    string
	once   sync.Once
}

func (l *localLock) Refresh(context.Context) error {
	return nil
}

func (l *localLock) Release(context.Context) error {
	l.once.Do(func() {
		l.locker.mu.Lock()
		delete(l.locker.held, l.key)
		l.locker.mu.Unlock()
	})
	return nil
}
