package emitter_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/emitter"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/mocks"
)

const contractAddress = "0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D"

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testEmitterMocks contains all the mocks needed for testing the emitter
type testEmitterMocks struct {
	ctrl        *gomock.Controller
	head        *mocks.MockHeadProvider
	confirmator *mocks.MockConfirmator
	tracker     *mocks.MockBlockTracker
	locker      *mocks.MockLocker
	lock        *mocks.MockLock
	clock       *mocks.MockClock
	emitter     emitter.Emitter
}

// setupTestEmitter creates all the mocks and emitter for testing
func setupTestEmitter(t *testing.T, cfg emitter.Config) *testEmitterMocks {
	ctrl := gomock.NewController(t)

	tm := &testEmitterMocks{
		ctrl:        ctrl,
		head:        mocks.NewMockHeadProvider(ctrl),
		confirmator: mocks.NewMockConfirmator(ctrl),
		tracker:     mocks.NewMockBlockTracker(ctrl),
		locker:      mocks.NewMockLocker(ctrl),
		lock:        mocks.NewMockLock(ctrl),
		clock:       mocks.NewMockClock(ctrl),
	}
	tm.confirmator.EXPECT().ContractAddress().Return(contractAddress).AnyTimes()
	tm.tracker.EXPECT().Namespace().Return("confirmator:0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d").AnyTimes()

	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = time.Millisecond
	}

	tm.emitter = emitter.NewEmitter(
		tm.head,
		[]emitter.Target{{Confirmator: tm.confirmator, Tracker: tm.tracker}},
		tm.locker,
		cfg,
		tm.clock,
		nil,
	)

	return tm
}

// tickImmediately makes every poll wait return at once
func (tm *testEmitterMocks) tickImmediately() {
	tm.clock.EXPECT().After(gomock.Any()).DoAndReturn(func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}).AnyTimes()
}

func (tm *testEmitterMocks) expectLock(times int) {
	tm.locker.EXPECT().Acquire(gomock.Any(), "confirmator:0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d").Return(tm.lock, nil).Times(times)
	tm.lock.EXPECT().Release(gomock.Any()).Return(nil).Times(times)
}

func block(number uint64) domain.Block {
	return domain.Block{Number: number, Hash: "0xhead"}
}

func TestEmitter_Run_ProcessesNewBlock(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{PollInterval: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, nil)
	tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil)
	tm.expectLock(1)
	tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).
		DoAndReturn(func(context.Context, domain.Block) error {
			cancel()
			return nil
		})
	tm.clock.EXPECT().After(time.Second).Return(make(chan time.Time)).AnyTimes()

	// Act
	err := tm.emitter.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitter_Run_RunsOncePerBlock(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tm.tickImmediately()

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, nil)
	gomock.InOrder(
		tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil),
		tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil),
		tm.head.EXPECT().GetHead(gomock.Any()).Return(block(107), nil),
	)
	tm.expectLock(2)
	gomock.InOrder(
		tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).Return(nil),
		tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(107)).
			DoAndReturn(func(context.Context, domain.Block) error {
				cancel()
				return nil
			}),
	)

	// Act
	err := tm.emitter.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitter_Run_RetriesFailedRunOnSameBlock(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tm.tickImmediately()

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, nil)
	tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil).Times(2)
	tm.expectLock(2)
	gomock.InOrder(
		tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).Return(errors.New("rpc timeout")),
		tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).
			DoAndReturn(func(context.Context, domain.Block) error {
				cancel()
				return nil
			}),
	)

	// Act
	err := tm.emitter.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitter_Run_SkipsWhenLockHeld(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tm.tickImmediately()

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, nil)
	gomock.InOrder(
		tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil),
		tm.head.EXPECT().GetHead(gomock.Any()).DoAndReturn(func(context.Context) (domain.Block, error) {
			cancel()
			return block(105), nil
		}),
	)
	tm.locker.EXPECT().Acquire(gomock.Any(), gomock.Any()).Return(nil, domain.ErrLockNotAcquired)

	// Act
	err := tm.emitter.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitter_Run_RetriesHeadFetch(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{RetryInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, nil)
	gomock.InOrder(
		tm.head.EXPECT().GetHead(gomock.Any()).Return(domain.Block{}, errors.New("connection refused")),
		tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil),
	)
	tm.expectLock(1)
	tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).
		DoAndReturn(func(context.Context, domain.Block) error {
			cancel()
			return nil
		})
	tm.clock.EXPECT().After(gomock.Any()).Return(make(chan time.Time)).AnyTimes()

	// Act
	err := tm.emitter.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitter_Run_AppliesRunTimeout(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{RunTimeout: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, nil)
	tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil)
	tm.expectLock(1)
	tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).
		DoAndReturn(func(runCtx context.Context, _ domain.Block) error {
			_, ok := runCtx.Deadline()
			assert.True(t, ok)
			cancel()
			return nil
		})
	tm.clock.EXPECT().After(gomock.Any()).Return(make(chan time.Time)).AnyTimes()

	// Act
	err := tm.emitter.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitter_Run_LogsResumePoint(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(true, nil)
	tm.tracker.EXPECT().Get(gomock.Any()).Return(&domain.Block{Number: 90, Hash: "0xb90"}, nil)
	tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil)
	tm.expectLock(1)
	tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).
		DoAndReturn(func(context.Context, domain.Block) error {
			cancel()
			return nil
		})
	tm.clock.EXPECT().After(gomock.Any()).Return(make(chan time.Time)).AnyTimes()

	// Act
	err := tm.emitter.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitter_Run_TrackerError(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{})

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, errors.New("db down"))

	// Act
	err := tm.emitter.Run(context.Background())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check block tracker")
}

func TestEmitter_Close(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{})

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, nil)
	tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil)
	tm.expectLock(1)
	tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).Return(nil)
	tm.clock.EXPECT().After(gomock.Any()).Return(make(chan time.Time)).AnyTimes()

	// Act
	tm.emitter.Close()
	tm.emitter.Close()
	err := tm.emitter.Run(context.Background())

	// Assert
	assert.NoError(t, err)
}

func TestEmitter_Run_RefreshesLockDuringRun(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{PollInterval: time.Second, LockRefreshInterval: 10 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan time.Time, 1)
	fired <- time.Now()
	refreshed := make(chan struct{})

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, nil)
	tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil)
	tm.expectLock(1)
	tm.clock.EXPECT().After(10 * time.Second).Return(fired)
	tm.clock.EXPECT().After(10 * time.Second).Return(make(chan time.Time)).AnyTimes()
	tm.lock.EXPECT().Refresh(gomock.Any()).DoAndReturn(func(context.Context) error {
		close(refreshed)
		return nil
	})
	tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).
		DoAndReturn(func(runCtx context.Context, _ domain.Block) error {
			<-refreshed
			assert.NoError(t, runCtx.Err())
			cancel()
			return nil
		})
	tm.clock.EXPECT().After(time.Second).Return(make(chan time.Time)).AnyTimes()

	// Act
	err := tm.emitter.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitter_Run_AbortsRunWhenLockLost(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{PollInterval: time.Second, LockRefreshInterval: 10 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan time.Time, 1)
	fired <- time.Now()

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, nil)
	tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil)
	tm.expectLock(1)
	tm.clock.EXPECT().After(10 * time.Second).Return(fired)
	tm.lock.EXPECT().Refresh(gomock.Any()).Return(fmt.Errorf("%w: confirmator", domain.ErrLockNotAcquired))

	var runErr error
	tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).
		DoAndReturn(func(runCtx context.Context, _ domain.Block) error {
			<-runCtx.Done()
			runErr = runCtx.Err()
			cancel()
			return runErr
		})
	tm.clock.EXPECT().After(time.Second).Return(make(chan time.Time)).AnyTimes()

	// Act
	err := tm.emitter.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, runErr, context.Canceled)
}

func TestEmitter_Run_KeepsRunningWhenRefreshFails(t *testing.T) {
	tm := setupTestEmitter(t, emitter.Config{PollInterval: time.Second, LockRefreshInterval: 10 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan time.Time, 2)
	fired <- time.Now()
	fired <- time.Now()
	refreshed := make(chan struct{})

	tm.tracker.EXPECT().IsInitialized(gomock.Any()).Return(false, nil)
	tm.head.EXPECT().GetHead(gomock.Any()).Return(block(105), nil)
	tm.expectLock(1)
	tm.clock.EXPECT().After(10 * time.Second).Return(fired).Times(2)
	tm.clock.EXPECT().After(10 * time.Second).Return(make(chan time.Time)).AnyTimes()
	gomock.InOrder(
		tm.lock.EXPECT().Refresh(gomock.Any()).Return(errors.New("redis timeout")),
		tm.lock.EXPECT().Refresh(gomock.Any()).DoAndReturn(func(context.Context) error {
			close(refreshed)
			return nil
		}),
	)
	tm.confirmator.EXPECT().RunConfirmationsRoutine(gomock.Any(), block(105)).
		DoAndReturn(func(runCtx context.Context, _ domain.Block) error {
			<-refreshed
			assert.NoError(t, runCtx.Err())
			cancel()
			return nil
		})
	tm.clock.EXPECT().After(time.Second).Return(make(chan time.Time)).AnyTimes()

	// Act
	err := tm.emitter.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}
