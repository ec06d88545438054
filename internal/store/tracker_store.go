package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/store/schema"
)

// GetBlockTracker retrieves the last processed block of a namespace
func (s *pgStore) GetBlockTracker(ctx context.Context, namespace string) (*domain.Block, error) {
	var tracker schema.BlockTracker
	err := s.db.WithContext(ctx).Where("namespace = ?", namespace).First(&tracker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get block tracker: %w", err)
	}

	return &domain.Block{
		Number: tracker.BlockNumber,
		Hash:   tracker.BlockHash,
	}, nil
}

// SetBlockTrackerIfHigher stores the block for a namespace when it is strictly newer than the stored one.
// The comparison happens inside the upsert so concurrent writers cannot move the tracker backwards.
func (s *pgStore) SetBlockTrackerIfHigher(ctx context.Context, namespace string, block domain.Block) (bool, error) {
	tracker := schema.BlockTracker{
		Namespace:   namespace,
		BlockNumber: block.Number,
		BlockHash:   block.Hash,
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}},
		DoUpdates: clause.AssignmentColumns([]string{"block_number", "block_hash", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "block_trackers.block_number < EXCLUDED.block_number"},
		}},
	}).Create(&tracker)
	if result.Error != nil {
		return false, fmt.Errorf("failed to set block tracker: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
