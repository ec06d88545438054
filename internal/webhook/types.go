package webhook

import (
	"time"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

// Header names sent with every webhook delivery
const (
	HeaderSignature        = "X-Webhook-Signature"
	HeaderEventID          = "X-Webhook-Event-ID"
	HeaderEventType        = "X-Webhook-Event-Type"
	HeaderTimestamp        = "X-Webhook-Timestamp"
	HeaderDeduplicationKey = "X-Webhook-Deduplication-Key"
)

// WebhookEvent represents a webhook event to be delivered to the subscriber endpoint
type WebhookEvent struct {
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID string `json:"event_id"`
	// EventType is the notification kind (newEvent, newConfirmation, invalidConfirmation)
	EventType string `json:"event_type"`
	// Timestamp is when the notification was generated
	Timestamp time.Time `json:"timestamp"`
	// Data is the notification being delivered
	Data *domain.Notification `json:"data"`
}

// NewWebhookEvent wraps a notification into a webhook event
func NewWebhookEvent(notification *domain.Notification) WebhookEvent {
	return WebhookEvent{
		EventID:   notification.ID,
		EventType: string(notification.Kind),
		Timestamp: notification.Timestamp,
		Data:      notification,
	}
}

// DeliveryResult represents the result of a webhook delivery attempt
type DeliveryResult struct {
	// StatusCode is the HTTP status code returned by the webhook endpoint
	StatusCode int
	// Body is the response body (limited to 4KB)
	Body string
	// Attempts is the number of HTTP requests made
	Attempts int
}
