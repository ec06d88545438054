package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

// ContractEvent represents the contract_events table - contract events waiting for confirmations
type ContractEvent struct {
	// ID is the record identifier (uuid)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// ContractAddress is the address of the contract that emitted the event
	ContractAddress string `gorm:"column:contract_address;not null;type:text;index:idx_contract_events_contract;uniqueIndex:idx_contract_events_origin"`
	// TransactionHash is the hash of the transaction that emitted the event
	TransactionHash string `gorm:"column:transaction_hash;not null;type:text;uniqueIndex:idx_contract_events_origin"`
	// BlockNumber is the block number recorded when the event was ingested
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// BlockHash is the block hash recorded when the event was ingested
	BlockHash string `gorm:"column:block_hash;not null;type:text"`
	// LogIndex is the position of the log in the block
	LogIndex uint `gorm:"column:log_index;not null;type:integer;uniqueIndex:idx_contract_events_origin"`
	// Event is the event name (e.g., Transfer)
	Event string `gorm:"column:event;not null;type:text"`
	// Content is the decoded event payload
	Content datatypes.JSONType[domain.EventContent] `gorm:"column:content;not null;type:jsonb"`
	// TargetConfirmation is the number of confirmations required before the event is emitted
	TargetConfirmation uint64 `gorm:"column:target_confirmation;not null;type:integer"`
	// Emitted is set once the event has been delivered and never reset
	Emitted bool `gorm:"column:emitted;not null;default:false"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ContractEvent model
func (ContractEvent) TableName() string {
	return "contract_events"
}

// ToDomain converts the row into a domain event
func (e *ContractEvent) ToDomain() domain.Event {
	return domain.Event{
		ID:                 e.ID,
		ContractAddress:    e.ContractAddress,
		TransactionHash:    e.TransactionHash,
		BlockNumber:        e.BlockNumber,
		BlockHash:          e.BlockHash,
		LogIndex:           e.LogIndex,
		Event:              e.Event,
		Content:            e.Content.Data(),
		TargetConfirmation: e.TargetConfirmation,
		Emitted:            e.Emitted,
		CreatedAt:          e.CreatedAt,
	}
}

// ContractEventFromDomain converts a domain event into a row
func ContractEventFromDomain(e domain.Event) ContractEvent {
	return ContractEvent{
		ID:                 e.ID,
		ContractAddress:    e.ContractAddress,
		TransactionHash:    e.TransactionHash,
		BlockNumber:        e.BlockNumber,
		BlockHash:          e.BlockHash,
		LogIndex:           e.LogIndex,
		Event:              e.Event,
		Content:            datatypes.NewJSONType(e.Content),
		TargetConfirmation: e.TargetConfirmation,
		Emitted:            e.Emitted,
	}
}
