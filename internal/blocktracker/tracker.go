package blocktracker

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/store"
)

// BlockTracker records the most recent block at which an event of a namespace was finalized.
// Writes are monotonic: a block is stored only when its number is strictly greater than the stored one.
//
//go:generate mockgen -source=tracker.go -destination=../mocks/block_tracker.go -package=mocks -mock_names=BlockTracker=MockBlockTracker
type BlockTracker interface {
	// Get returns the stored block, or nil when nothing was recorded yet
	Get(ctx context.Context) (*domain.Block, error)

	// SetIfHigher stores the block when it is newer than the stored one and reports whether it did
	SetIfHigher(ctx context.Context, number uint64, hash string) (bool, error)

	// IsInitialized reports whether a block was ever recorded
	IsInitialized(ctx context.Context) (bool, error)

	// Namespace returns the key the tracker persists under
	Namespace() string
}

type blockTracker struct {
	store     store.TrackerStore
	namespace string
}

// New creates a block tracker persisting under the given namespace
func New(trackerStore store.TrackerStore, namespace string) BlockTracker {
	return &blockTracker{
		store:     trackerStore,
		namespace: namespace,
	}
}

// Namespace builds the tracker namespace of a service scoped to a contract
func Namespace(service string, contractAddress string) string {
	return fmt.Sprintf("%s:%s", service, strings.ToLower(contractAddress))
}

func (t *blockTracker) Namespace() string {
	return t.namespace
}

func (t *blockTracker) Get(ctx context.Context) (*domain.Block, error) {
	block, err := t.store.GetBlockTracker(ctx, t.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to get block tracker %s: %w", t.namespace, err)
	}

	return block, nil
}

func (t *blockTracker) SetIfHigher(ctx context.Context, number uint64, hash string) (bool, error) {
	applied, err := t.store.SetBlockTrackerIfHigher(ctx, t.namespace, domain.Block{Number: number, Hash: hash})
	if err != nil {
		return false, fmt.Errorf("failed to set block tracker %s: %w", t.namespace, err)
	}

	if applied {
		logger.DebugCtx(ctx, "Block tracker advanced",
			zap.String("namespace", t.namespace),
			zap.Uint64("block_number", number),
			zap.String("block_hash", hash))
	}

	return applied, nil
}

func (t *blockTracker) IsInitialized(ctx context.Context) (bool, error) {
	block, err := t.Get(ctx)
	if err != nil {
		return false, err
	}

	return block != nil, nil
}
