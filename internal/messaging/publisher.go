package messaging

import (
	"context"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

// Publisher defines the interface for delivering confirmation notifications to consumers.
// Delivery is at-least-once; consumers deduplicate with Notification.DeduplicationKey.
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// Publish delivers a notification. A returned error means delivery is not guaranteed.
	Publish(ctx context.Context, notification *domain.Notification) error
	// Close releases the resources held by the publisher
	Close()
}
