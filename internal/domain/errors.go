package domain

import "errors"

var (
	// ErrInvalidBlock is returned when a block header is missing or malformed
	ErrInvalidBlock = errors.New("invalid block")

	// ErrInvalidConfig is returned when a component is constructed with an unusable configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLockNotAcquired is returned when another process is already running the routine for a contract
	ErrLockNotAcquired = errors.New("lock not acquired")

	// ErrInvalidEventLog is returned when a raw log cannot be turned into a pending event
	ErrInvalidEventLog = errors.New("invalid event log")

	// ErrChainMismatch is returned when the RPC endpoint serves another chain than the configured one
	ErrChainMismatch = errors.New("chain mismatch")
)
