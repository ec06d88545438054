package domain

import (
	"fmt"
	"time"
)

// NotificationKind is the type of a confirmation notification
type NotificationKind string

const (
	// NotificationKindNewEvent announces an event that reached its target confirmation
	NotificationKindNewEvent NotificationKind = "newEvent"
	// NotificationKindNewConfirmation announces confirmation progress of a pending event
	NotificationKindNewConfirmation NotificationKind = "newConfirmation"
	// NotificationKindInvalidConfirmation announces an event dropped because of a reorg
	NotificationKindInvalidConfirmation NotificationKind = "invalidConfirmation"
)

// ConfirmationProgress is the payload of a newConfirmation notification
type ConfirmationProgress struct {
	Event              string `json:"event"`
	TransactionHash    string `json:"transactionHash"`
	Confirmations      int64  `json:"confirmations"`
	TargetConfirmation uint64 `json:"targetConfirmation"`
}

// Invalidation is the payload of an invalidConfirmation notification.
// One is published per dropped event, so a transaction emitting several events yields several.
type Invalidation struct {
	TransactionHash string `json:"transactionHash"`
	Event           string `json:"event,omitempty"`
	LogIndex        uint   `json:"logIndex"`
}

// Notification is a message published by the confirmator.
// Exactly one of Finalized, Progress and Invalidation is set, matching Kind.
type Notification struct {
	ID              string                `json:"id"`
	Kind            NotificationKind      `json:"kind"`
	ContractAddress string                `json:"contractAddress"`
	Timestamp       time.Time             `json:"timestamp"`
	Finalized       *EventContent         `json:"finalized,omitempty"`
	Progress        *ConfirmationProgress `json:"progress,omitempty"`
	Invalidation    *Invalidation         `json:"invalidation,omitempty"`
}

// NewFinalizedNotification builds a newEvent notification
func NewFinalizedNotification(contractAddress string, content EventContent) *Notification {
	return &Notification{
		Kind:            NotificationKindNewEvent,
		ContractAddress: contractAddress,
		Finalized:       &content,
	}
}

// NewProgressNotification builds a newConfirmation notification
func NewProgressNotification(contractAddress string, progress ConfirmationProgress) *Notification {
	return &Notification{
		Kind:            NotificationKindNewConfirmation,
		ContractAddress: contractAddress,
		Progress:        &progress,
	}
}

// NewInvalidationNotification builds an invalidConfirmation notification
func NewInvalidationNotification(contractAddress string, invalidation Invalidation) *Notification {
	return &Notification{
		Kind:            NotificationKindInvalidConfirmation,
		ContractAddress: contractAddress,
		Invalidation:    &invalidation,
	}
}

// TransactionHash returns the transaction hash the notification refers to
func (n *Notification) TransactionHash() string {
	switch {
	case n.Finalized != nil:
		return n.Finalized.TransactionHash
	case n.Progress != nil:
		return n.Progress.TransactionHash
	case n.Invalidation != nil:
		return n.Invalidation.TransactionHash
	default:
		return ""
	}
}

// DeduplicationKey returns the key consumers should use to drop duplicate deliveries.
// Finalized and invalidated events are keyed by (transactionHash, event, logIndex); progress also includes the depth.
func (n *Notification) DeduplicationKey() string {
	switch n.Kind {
	case NotificationKindNewEvent:
		if n.Finalized == nil {
			return ""
		}
		return fmt.Sprintf("%s:%s:%s:%s:%d", n.Kind, n.ContractAddress, n.Finalized.TransactionHash, n.Finalized.Event, n.Finalized.LogIndex)
	case NotificationKindNewConfirmation:
		if n.Progress == nil {
			return ""
		}
		return fmt.Sprintf("%s:%s:%s:%s:%d", n.Kind, n.ContractAddress, n.Progress.TransactionHash, n.Progress.Event, n.Progress.Confirmations)
	case NotificationKindInvalidConfirmation:
		if n.Invalidation == nil {
			return ""
		}
		return fmt.Sprintf("%s:%s:%s:%s:%d", n.Kind, n.ContractAddress, n.Invalidation.TransactionHash, n.Invalidation.Event, n.Invalidation.LogIndex)
	default:
		return ""
	}
}
