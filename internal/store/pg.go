package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/store/schema"
)

// contractEventFields is the number of bound parameters per contract_events row
const contractEventFields = 12

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 10 (if 0)
//   - MaxIdleConns: 2 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 10
	}
	if maxIdleConns == 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes the batch size for bulk inserts that stays under
// PostgreSQL's limit of 65535 bound parameters per statement.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

// CreateEvents records newly observed events, skipping the ones already recorded
func (s *pgStore) CreateEvents(ctx context.Context, events []domain.Event) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	rows := make([]schema.ContractEvent, 0, len(events))
	for _, e := range events {
		rows = append(rows, schema.ContractEventFromDomain(e))
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contract_address"}, {Name: "transaction_hash"}, {Name: "log_index"}},
		DoNothing: true,
	}).CreateInBatches(rows, calculateSafeBatchSize(len(rows), contractEventFields))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to create contract events: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// FindPendingEvents returns all events recorded for a contract
func (s *pgStore) FindPendingEvents(ctx context.Context, contractAddress string) ([]domain.Event, error) {
	var rows []schema.ContractEvent
	err := s.db.WithContext(ctx).
		Where("contract_address = ?", contractAddress).
		Order("block_number ASC, log_index ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending events: %w", err)
	}

	events := make([]domain.Event, 0, len(rows))
	for i := range rows {
		events = append(events, rows[i].ToDomain())
	}

	return events, nil
}

// MarkEventsEmitted flags the given events as emitted.
// Rows already emitted are left untouched so the flag never flips back.
func (s *pgStore) MarkEventsEmitted(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).
		Model(&schema.ContractEvent{}).
		Where("id IN ? AND emitted = ?", ids, false).
		Updates(map[string]any{
			"emitted":    true,
			"updated_at": gorm.Expr("now()"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark events emitted: %w", result.Error)
	}

	logger.DebugCtx(ctx, "Marked events emitted",
		zap.Int("requested", len(ids)),
		zap.Int64("updated", result.RowsAffected))

	return nil
}

// DeleteEvents permanently removes the given events
func (s *pgStore) DeleteEvents(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&schema.ContractEvent{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete events: %w", result.Error)
	}

	logger.DebugCtx(ctx, "Deleted events",
		zap.Int("requested", len(ids)),
		zap.Int64("deleted", result.RowsAffected))

	return nil
}

// FindGroupedEvents returns one row per distinct (transaction hash, event) recorded for a contract
func (s *pgStore) FindGroupedEvents(ctx context.Context, contractAddress string) ([]domain.EventGroup, error) {
	var groups []domain.EventGroup
	err := s.db.WithContext(ctx).
		Model(&schema.ContractEvent{}).
		Select("transaction_hash, event, MIN(block_number) AS block_number, MAX(target_confirmation) AS target_confirmation").
		Where("contract_address = ?", contractAddress).
		Group("transaction_hash, event").
		Order("MIN(block_number) ASC, transaction_hash ASC, event ASC").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find grouped events: %w", err)
	}

	return groups, nil
}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
