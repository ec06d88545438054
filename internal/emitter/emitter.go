package emitter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/block"
	"github.com/feral-file/ff-confirmator/internal/blocktracker"
	"github.com/feral-file/ff-confirmator/internal/confirmator"
	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/lock"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/metrics"
)

// Config holds the configuration for the block emitter
type Config struct {
	// PollInterval is the delay between two chain head polls
	PollInterval time.Duration
	// RunTimeout bounds a single confirmation routine run. Zero means no timeout.
	RunTimeout time.Duration
	// RetryInterval is the first delay after a failed head fetch
	RetryInterval time.Duration
	// MaxRetryInterval caps the backoff between failed head fetches
	MaxRetryInterval time.Duration
	// LockRefreshInterval is the delay between two contract lock refreshes while a routine runs.
	// Zero disables refreshing.
	LockRefreshInterval time.Duration
}

// Target is a confirmator driven by the emitter together with its block tracker
type Target struct {
	Confirmator confirmator.Confirmator
	Tracker     blocktracker.BlockTracker
}

// Emitter defines the interface for the new block emitter
//
//go:generate mockgen -source=emitter.go -destination=../mocks/emitter.go -package=mocks -mock_names=Emitter=MockEmitter
type Emitter interface {
	// Run polls the chain head and runs every confirmator once per new block until ctx is canceled
	Run(ctx context.Context) error
	// Close stops the emitter loop
	Close()
}

// emitter polls the chain head and drives the confirmators
type emitter struct {
	head    block.HeadProvider
	targets []Target
	locker  lock.Locker
	config  Config
	clock   adapter.Clock
	metrics *metrics.Metrics

	// lastRun holds, per contract, the last head the routine completed on
	lastRun  map[string]uint64
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewEmitter creates a new block emitter
func NewEmitter(
	head block.HeadProvider,
	targets []Target,
	locker lock.Locker,
	cfg Config,
	clock adapter.Clock,
	m *metrics.Metrics,
) Emitter {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 15 * time.Second
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = time.Second
	}
	if cfg.MaxRetryInterval == 0 {
		cfg.MaxRetryInterval = time.Minute
	}

	return &emitter{
		head:    head,
		targets: targets,
		locker:  locker,
		config:  cfg,
		clock:   clock,
		metrics: m,
		lastRun: make(map[string]uint64, len(targets)),
		stopCh:  make(chan struct{}),
	}
}

// Run starts the block emitter
func (e *emitter) Run(ctx context.Context) error {
	for _, t := range e.targets {
		if err := e.logResumePoint(ctx, t); err != nil {
			return err
		}
	}

	logger.InfoCtx(ctx, "Starting block emitter",
		zap.Int("contracts", len(e.targets)),
		zap.Duration("poll_interval", e.config.PollInterval),
		zap.Duration("run_timeout", e.config.RunTimeout))

	var lastHead uint64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, err := e.fetchHead(ctx)
		if err != nil {
			return err
		}

		if current.Number < lastHead {
			logger.WarnCtx(ctx, "Chain head moved backwards",
				zap.Uint64("previous", lastHead),
				zap.Uint64("current", current.Number))
		} else if lastHead > 0 && current.Number > lastHead+1 {
			logger.DebugCtx(ctx, "Blocks skipped between polls",
				zap.Uint64("previous", lastHead),
				zap.Uint64("current", current.Number))
		}
		lastHead = current.Number
		e.metrics.SetHeadBlock(current.Number)

		for _, t := range e.targets {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.process(ctx, t.Confirmator, current)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stopCh:
			logger.InfoCtx(ctx, "Block emitter stop requested")
			return nil
		case <-e.clock.After(e.config.PollInterval):
		}
	}
}

// logResumePoint reports where each contract left off in a previous run
func (e *emitter) logResumePoint(ctx context.Context, t Target) error {
	initialized, err := t.Tracker.IsInitialized(ctx)
	if err != nil {
		return fmt.Errorf("failed to check block tracker %s: %w", t.Tracker.Namespace(), err)
	}

	if !initialized {
		logger.InfoCtx(ctx, "No finalized event recorded yet",
			zap.String("contract", t.Confirmator.ContractAddress()),
			zap.String("namespace", t.Tracker.Namespace()))
		return nil
	}

	last, err := t.Tracker.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get block tracker %s: %w", t.Tracker.Namespace(), err)
	}
	if last == nil {
		return nil
	}

	logger.InfoCtx(ctx, "Resuming after last finalized event",
		zap.String("contract", t.Confirmator.ContractAddress()),
		zap.String("namespace", t.Tracker.Namespace()),
		zap.Uint64("block_number", last.Number),
		zap.String("block_hash", last.Hash))
	e.metrics.SetTrackedBlock(t.Confirmator.ContractAddress(), last.Number)

	return nil
}

// fetchHead reads the chain head, retrying with exponential backoff until it succeeds or ctx ends
func (e *emitter) fetchHead(ctx context.Context) (domain.Block, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.config.RetryInterval
	b.MaxInterval = e.config.MaxRetryInterval
	b.MaxElapsedTime = 0

	var current domain.Block
	operation := func() error {
		var err error
		current, err = e.head.GetHead(ctx)
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.WarnCtx(ctx, "Failed to fetch chain head, retrying", zap.Error(err), zap.Duration("wait", wait))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return domain.Block{}, fmt.Errorf("failed to fetch chain head: %w", err)
	}

	return current, nil
}

// process runs one confirmator for the head under the contract lock.
// Failures are logged; the routine is retried on the next poll.
func (e *emitter) process(ctx context.Context, c confirmator.Confirmator, current domain.Block) {
	contract := c.ContractAddress()
	if last, ok := e.lastRun[contract]; ok && last == current.Number {
		return
	}

	ctx = logger.WithFields(ctx, zap.String("contract", contract))

	l, err := e.locker.Acquire(ctx, "confirmator:"+strings.ToLower(contract))
	if err != nil {
		if errors.Is(err, domain.ErrLockNotAcquired) {
			logger.DebugCtx(ctx, "Confirmation routine running elsewhere, skipping", zap.Uint64("block_number", current.Number))
			e.metrics.RecordSkippedRun(contract)
			return
		}
		logger.ErrorCtx(ctx, fmt.Errorf("failed to acquire lock: %w", err))
		return
	}
	defer func() {
		// The run context may already be canceled
		if err := l.Release(context.WithoutCancel(ctx)); err != nil {
			logger.WarnCtx(ctx, "Failed to release lock", zap.Error(err))
		}
	}()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	if e.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, e.config.RunTimeout)
		defer cancel()
	}

	if e.config.LockRefreshInterval > 0 {
		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.keepLock(runCtx, l, cancelRun, done)
		}()
		defer func() {
			close(done)
			wg.Wait()
		}()
	}

	if err := c.RunConfirmationsRoutine(runCtx, current); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("confirmation routine failed: %w", err), zap.Uint64("block_number", current.Number))
		return
	}

	e.lastRun[contract] = current.Number
}

// keepLock refreshes the contract lock until done is closed.
// The run is canceled as soon as the lock is found to be held by someone else.
func (e *emitter) keepLock(ctx context.Context, l lock.Lock, cancelRun context.CancelFunc, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-e.clock.After(e.config.LockRefreshInterval):
		}

		if err := l.Refresh(ctx); err != nil {
			if errors.Is(err, domain.ErrLockNotAcquired) {
				logger.WarnCtx(ctx, "Contract lock lost, aborting confirmation routine", zap.Error(err))
				cancelRun()
				return
			}
			if ctx.Err() != nil {
				return
			}
			logger.WarnCtx(ctx, "Failed to refresh contract lock", zap.Error(err))
		}
	}
}

// Close stops the emitter loop
func (e *emitter) Close() {
	e.stopOnce.Do(func() {
		close(e.stopCh)
	})
}
