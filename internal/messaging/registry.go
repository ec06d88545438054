package messaging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

// Handler is called for every notification a subscription matches
type Handler func(ctx context.Context, notification *domain.Notification) error

// Registry is an in-process publisher that dispatches notifications to subscribed callbacks
//
//go:generate mockgen -source=registry.go -destination=../mocks/registry.go -package=mocks -mock_names=Registry=MockRegistry
type Registry interface {
	Publisher
	// Subscribe registers a handler for the given kinds, or for every kind when none is given.
	// The returned function removes the subscription.
	Subscribe(handler Handler, kinds ...domain.NotificationKind) (unsubscribe func())
}

type subscription struct {
	id      uint64
	kinds   []domain.NotificationKind
	handler Handler
}

func (s *subscription) matches(kind domain.NotificationKind) bool {
	return len(s.kinds) == 0 || slices.Contains(s.kinds, kind)
}

type registry struct {
	mu            sync.RWMutex
	nextID        uint64
	subscriptions []subscription
}

// NewRegistry creates an empty callback registry
func NewRegistry() Registry {
	return &registry{}
}

func (r *registry) Subscribe(handler Handler, kinds ...domain.NotificationKind) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.subscriptions = append(r.subscriptions, subscription{
		id:      id,
		kinds:   slices.Clone(kinds),
		handler: handler,
	})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.subscriptions = slices.DeleteFunc(r.subscriptions, func(s subscription) bool {
			return s.id == id
		})
	}
}

// Publish calls every matching handler in subscription order.
// All handlers run even when one fails; their errors are joined.
func (r *registry) Publish(ctx context.Context, notification *domain.Notification) error {
	r.mu.RLock()
	matched := make([]subscription, 0, len(r.subscriptions))
	for _, s := range r.subscriptions {
		if s.matches(notification.Kind) {
			matched = append(matched, s)
		}
	}
	r.mu.RUnlock()

	var errs []error
	for _, s := range matched {
		if err := s.handler(ctx, notification); err != nil {
			errs = append(errs, fmt.Errorf("handler %d failed for %s: %w", s.id, notification.Kind, err))
		}
	}

	return errors.Join(errs...)
}

func (r *registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscriptions = nil
}
