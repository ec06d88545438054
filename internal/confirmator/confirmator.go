package confirmator

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/blocktracker"
	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/messaging"
	"github.com/feral-file/ff-confirmator/internal/metrics"
	"github.com/feral-file/ff-confirmator/internal/providers/ethereum"
	"github.com/feral-file/ff-confirmator/internal/store"
)

// Confirmator matures the pending events of one contract on every new block
//
//go:generate mockgen -source=confirmator.go -destination=../mocks/confirmator.go -package=mocks -mock_names=Confirmator=MockConfirmator
type Confirmator interface {
	// RunConfirmationsRoutine classifies every pending event of the contract against currentBlock.
	// It publishes finalized, progress and invalidation notifications, marks finalized events as
	// emitted, removes collected and invalidated events and advances the block tracker.
	// Invocations for the same contract must not overlap.
	RunConfirmationsRoutine(ctx context.Context, currentBlock domain.Block) error

	// ContractAddress returns the contract the confirmator is bound to
	ContractAddress() string

	// Close stops the validation worker pool
	Close()
}

type confirmator struct {
	config    Config
	store     store.EventStore
	validator ethereum.ReceiptValidator
	tracker   blocktracker.BlockTracker
	publisher messaging.Publisher
	clock     adapter.Clock
	metrics   *metrics.Metrics
	pool      pond.ResultPool[bool]
}

// New creates a confirmator for the contract named in cfg
func New(
	cfg Config,
	st store.EventStore,
	validator ethereum.ReceiptValidator,
	tracker blocktracker.BlockTracker,
	publisher messaging.Publisher,
	clock adapter.Clock,
	m *metrics.Metrics,
) (Confirmator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &confirmator{
		config:    cfg,
		store:     st,
		validator: validator,
		tracker:   tracker,
		publisher: publisher,
		clock:     clock,
		metrics:   m,
		pool:      pond.NewResultPool[bool](cfg.ValidationConcurrency),
	}, nil
}

func (c *confirmator) ContractAddress() string {
	return c.config.ContractAddress
}

func (c *confirmator) Close() {
	c.pool.StopAndWait()
}

func (c *confirmator) RunConfirmationsRoutine(ctx context.Context, currentBlock domain.Block) error {
	contract := c.config.ContractAddress
	ctx = logger.WithFields(ctx,
		zap.String("contract", contract),
		zap.Uint64("current_block", currentBlock.Number))

	startTime := c.clock.Now()
	err := c.run(ctx, currentBlock.Number)
	c.metrics.RecordRun(contract, err, c.clock.Since(startTime).Seconds())

	return err
}

func (c *confirmator) run(ctx context.Context, currentBlockNumber uint64) error {
	contract := c.config.ContractAddress

	events, err := c.store.FindPendingEvents(ctx, contract)
	if err != nil {
		return fmt.Errorf("failed to load pending events: %w", err)
	}
	c.metrics.SetPendingEvents(contract, len(events))

	if len(events) == 0 {
		logger.DebugCtx(ctx, "No pending events")
		return nil
	}

	alreadyConfirmed, awaiting := domain.Partition(events, c.alreadyConfirmed(currentBlockNumber))

	retained, err := c.handleAlreadyConfirmed(ctx, alreadyConfirmed, currentBlockNumber)
	if err != nil {
		return err
	}

	toValidate := awaiting
	if c.config.RevalidateEmitted {
		emitted, _ := domain.Partition(retained, func(e *domain.Event) bool { return e.Emitted })
		toValidate = append(toValidate, emitted...)
	}

	valid, invalid, err := c.validate(ctx, toValidate)
	if err != nil {
		return err
	}

	// Revalidated emitted events only matter when their receipt turned invalid
	_, valid = domain.Partition(valid, func(e *domain.Event) bool { return e.Emitted })
	toEmit, toKeep := domain.Partition(valid, c.confirmed(currentBlockNumber))

	if err := c.emitConfirmed(ctx, toEmit); err != nil {
		return err
	}

	c.publishProgress(ctx, toKeep, currentBlockNumber)

	if err := c.invalidate(ctx, invalid); err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Confirmation routine completed",
		zap.Int("pending", len(events)),
		zap.Int("confirmed", len(toEmit)),
		zap.Int("awaiting", len(toKeep)),
		zap.Int("invalid", len(invalid)))

	return nil
}

// alreadyConfirmed selects the events that no longer need a receipt check
func (c *confirmator) alreadyConfirmed(currentBlockNumber uint64) func(*domain.Event) bool {
	if c.config.EmissionPolicy == EmissionPolicyExact {
		return func(e *domain.Event) bool {
			return e.Emitted || e.HasPassedTarget(currentBlockNumber)
		}
	}

	return func(e *domain.Event) bool {
		return e.Emitted
	}
}

// confirmed selects, among validated events, the ones to finalize now
func (c *confirmator) confirmed(currentBlockNumber uint64) func(*domain.Event) bool {
	if c.config.EmissionPolicy == EmissionPolicyExact {
		return func(e *domain.Event) bool {
			return e.IsExactlyConfirmed(currentBlockNumber)
		}
	}

	return func(e *domain.Event) bool {
		return e.HasReachedTarget(currentBlockNumber)
	}
}

// handleAlreadyConfirmed removes emitted events past the collection depth and returns the rest
func (c *confirmator) handleAlreadyConfirmed(ctx context.Context, events []domain.Event, currentBlockNumber uint64) ([]domain.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}

	toDelete, retained := domain.Partition(events, func(e *domain.Event) bool {
		return e.IsExpired(currentBlockNumber, c.config.DeleteTargetConfirmationsMultiplier)
	})

	for _, e := range retained {
		if !e.Emitted {
			logger.WarnCtx(ctx, "Event passed its target confirmation without being emitted",
				zap.String("event_id", e.ID),
				zap.String("tx_hash", e.TransactionHash),
				zap.String("event", e.Event),
				zap.Uint64("block_number", e.BlockNumber),
				zap.Int64("confirmations", e.Confirmations(currentBlockNumber)),
				zap.Uint64("target_confirmation", e.TargetConfirmation))
			c.metrics.AddEvents(c.config.ContractAddress, metrics.OutcomeStuck, 1)
		}
	}

	if len(toDelete) == 0 {
		return retained, nil
	}

	if err := c.store.DeleteEvents(ctx, domain.EventIDs(toDelete)); err != nil {
		return nil, fmt.Errorf("failed to delete collected events: %w", err)
	}

	logger.DebugCtx(ctx, "Removed emitted events past the collection depth",
		zap.Int("count", len(toDelete)),
		zap.Float64("multiplier", c.config.DeleteTargetConfirmationsMultiplier))
	c.metrics.AddEvents(c.config.ContractAddress, metrics.OutcomeCollected, len(toDelete))

	return retained, nil
}

// validate checks the receipts of the events concurrently and splits them into valid and invalid.
// The first provider error fails the whole batch.
func (c *confirmator) validate(ctx context.Context, events []domain.Event) ([]domain.Event, []domain.Event, error) {
	if len(events) == 0 {
		return nil, nil, nil
	}

	group := c.pool.NewGroup()
	for _, e := range events {
		group.SubmitErr(func() (bool, error) {
			ok, err := c.validator.ValidateReceipt(ctx, e.TransactionHash, e.BlockNumber)
			c.metrics.RecordReceipt(ok, err)
			if err != nil {
				return false, fmt.Errorf("failed to validate receipt of %s: %w", e.TransactionHash, err)
			}
			if !ok {
				logger.WarnCtx(ctx, "Event does not have a valid receipt",
					zap.String("event_id", e.ID),
					zap.String("tx_hash", e.TransactionHash),
					zap.String("event", e.Event),
					zap.Uint64("block_number", e.BlockNumber))
			}
			return ok, nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, nil, err
	}

	var valid, invalid []domain.Event
	for i, ok := range results {
		if ok {
			valid = append(valid, events[i])
		} else {
			invalid = append(invalid, events[i])
		}
	}

	return valid, invalid, nil
}

// emitConfirmed publishes the finalized events, advances the block tracker and marks them emitted.
// Events published before a failure are still marked so they are not delivered twice.
func (c *confirmator) emitConfirmed(ctx context.Context, events []domain.Event) error {
	var emitted []string
	var emitErr error

	for _, e := range events {
		if e.Emitted {
			continue
		}

		logger.DebugCtx(ctx, "Confirming event",
			zap.String("event_id", e.ID),
			zap.String("tx_hash", e.TransactionHash),
			zap.String("event", e.Event))

		if err := c.publish(ctx, domain.NewFinalizedNotification(c.config.ContractAddress, e.Content)); err != nil {
			emitErr = fmt.Errorf("failed to publish finalized event %s: %w", e.TransactionHash, err)
			break
		}
		emitted = append(emitted, e.ID)

		advanced, err := c.tracker.SetIfHigher(ctx, e.BlockNumber, e.BlockHash)
		if err != nil {
			emitErr = err
			break
		}
		if advanced {
			c.metrics.SetTrackedBlock(c.config.ContractAddress, e.BlockNumber)
		}
	}

	if len(emitted) > 0 {
		if err := c.store.MarkEventsEmitted(ctx, emitted); err != nil {
			return errors.Join(emitErr, fmt.Errorf("failed to mark events emitted: %w", err))
		}
	}

	c.metrics.AddEvents(c.config.ContractAddress, metrics.OutcomeEmitted, len(emitted))
	if len(emitted) > 0 {
		logger.InfoCtx(ctx, "Confirmed events", zap.Int("count", len(emitted)))
	}

	return emitErr
}

// publishProgress announces the confirmation depth of events still awaiting their target.
// Progress is informational, so delivery failures are logged and skipped.
func (c *confirmator) publishProgress(ctx context.Context, events []domain.Event, currentBlockNumber uint64) {
	for _, e := range events {
		notification := domain.NewProgressNotification(c.config.ContractAddress, domain.ConfirmationProgress{
			Event:              e.Event,
			TransactionHash:    e.TransactionHash,
			Confirmations:      e.Confirmations(currentBlockNumber),
			TargetConfirmation: e.TargetConfirmation,
		})

		if err := c.publish(ctx, notification); err != nil {
			logger.WarnCtx(ctx, "Failed to publish confirmation progress",
				zap.Error(err),
				zap.String("tx_hash", e.TransactionHash),
				zap.String("event", e.Event))
		}
	}

	c.metrics.AddEvents(c.config.ContractAddress, metrics.OutcomeProgress, len(events))
}

// invalidate announces and removes events whose receipts no longer match
func (c *confirmator) invalidate(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	for _, e := range events {
		if err := c.publish(ctx, domain.NewInvalidationNotification(c.config.ContractAddress, domain.Invalidation{
			TransactionHash: e.TransactionHash,
			Event:           e.Event,
			LogIndex:        e.LogIndex,
		})); err != nil {
			return fmt.Errorf("failed to publish invalidation of %s: %w", e.TransactionHash, err)
		}
	}

	if err := c.store.DeleteEvents(ctx, domain.EventIDs(events)); err != nil {
		return fmt.Errorf("failed to delete invalid events: %w", err)
	}

	logger.InfoCtx(ctx, "Removed invalid events", zap.Int("count", len(events)))
	c.metrics.AddEvents(c.config.ContractAddress, metrics.OutcomeInvalidated, len(events))

	return nil
}

func (c *confirmator) publish(ctx context.Context, notification *domain.Notification) error {
	now := c.clock.Now()
	notification.ID = ulid.MustNewDefault(now).String()
	notification.Timestamp = now

	return c.publisher.Publish(ctx, notification)
}
