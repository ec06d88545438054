package confirmator

import (
	"context"
	"fmt"

	"github.com/feral-file/ff-confirmator/internal/block"
	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/store"
)

// Service is the read-only view over pending confirmations
//
//go:generate mockgen -source=service.go -destination=../mocks/confirmator_service.go -package=mocks -mock_names=Service=MockService
type Service interface {
	// Find returns the confirmation progress of every distinct (transaction hash, event) pair
	// still pending for the contract, measured against the current chain head
	Find(ctx context.Context, contractAddress string) ([]domain.ConfirmationStatus, error)
}

type service struct {
	store store.EventStore
	head  block.HeadProvider
}

// NewService creates the confirmation status view
func NewService(st store.EventStore, head block.HeadProvider) Service {
	return &service{
		store: st,
		head:  head,
	}
}

func (s *service) Find(ctx context.Context, contractAddress string) ([]domain.ConfirmationStatus, error) {
	groups, err := s.store.FindGroupedEvents(ctx, contractAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to find grouped events: %w", err)
	}

	current, err := s.head.GetHead(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current block: %w", err)
	}

	statuses := make([]domain.ConfirmationStatus, 0, len(groups))
	for i := range groups {
		statuses = append(statuses, groups[i].Status(current.Number))
	}

	return statuses, nil
}
