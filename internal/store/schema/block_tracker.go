package schema

import "time"

// BlockTracker represents the block_trackers table - last processed block per namespace
type BlockTracker struct {
	Namespace   string    `gorm:"column:namespace;primaryKey;type:text"`
	BlockNumber uint64    `gorm:"column:block_number;not null;type:bigint"`
	BlockHash   string    `gorm:"column:block_hash;not null;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (BlockTracker) TableName() string {
	return "block_trackers"
}
