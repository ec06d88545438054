package store

import (
	"context"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

// EventStore defines the persistence contract for pending contract events
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=EventStore=MockEventStore,TrackerStore=MockTrackerStore,Store=MockStore
type EventStore interface {
	// CreateEvents records newly observed events. Events already recorded for the same
	// (contract, transaction, log index) are skipped. Returns the number of inserted rows.
	CreateEvents(ctx context.Context, events []domain.Event) (int64, error)
	// FindPendingEvents returns all events recorded for a contract, oldest block first
	FindPendingEvents(ctx context.Context, contractAddress string) ([]domain.Event, error)
	// MarkEventsEmitted flags the given events as emitted
	MarkEventsEmitted(ctx context.Context, ids []string) error
	// DeleteEvents permanently removes the given events
	DeleteEvents(ctx context.Context, ids []string) error
	// FindGroupedEvents returns one row per distinct (transaction hash, event) pending for a contract
	FindGroupedEvents(ctx context.Context, contractAddress string) ([]domain.EventGroup, error)
}

// TrackerStore defines the persistence contract for namespaced block trackers
type TrackerStore interface {
	// GetBlockTracker returns the last processed block of a namespace, or nil if none was recorded
	GetBlockTracker(ctx context.Context, namespace string) (*domain.Block, error)
	// SetBlockTrackerIfHigher stores the block only when its number is strictly greater than the
	// stored one. Returns whether the value was written.
	SetBlockTrackerIfHigher(ctx context.Context, namespace string, block domain.Block) (bool, error)
}

// Store defines the interface for database operations
type Store interface {
	EventStore
	TrackerStore
	// Ping checks the database connection
	Ping(ctx context.Context) error
}
