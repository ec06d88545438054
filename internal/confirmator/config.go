package confirmator

import (
	"fmt"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

// EmissionPolicy decides when a validated event is finalized
type EmissionPolicy string

const (
	// EmissionPolicyThreshold finalizes an event once its depth reaches the target, so a skipped
	// block never leaves an event behind. The emitted flag keeps emission idempotent.
	EmissionPolicyThreshold EmissionPolicy = "threshold"

	// EmissionPolicyExact finalizes an event only when its depth equals the target.
	// Events whose depth skips past the target are never emitted and are reported as stuck.
	EmissionPolicyExact EmissionPolicy = "exact"
)

const defaultValidationConcurrency = 8

// Config holds the configuration of a confirmator bound to one contract
type Config struct {
	// ContractAddress is the contract whose events are processed
	ContractAddress string

	// DeleteTargetConfirmationsMultiplier scales the target confirmation to get the depth at which
	// emitted events are removed from the store
	DeleteTargetConfirmationsMultiplier float64

	// EmissionPolicy defaults to EmissionPolicyThreshold
	EmissionPolicy EmissionPolicy

	// ValidationConcurrency bounds concurrent receipt lookups of one run
	ValidationConcurrency int

	// RevalidateEmitted makes the routine also check the receipts of emitted events that are not
	// yet collected, so a reorg after finalization is reported as an invalidation
	RevalidateEmitted bool
}

// Validate applies defaults and checks the configuration
func (c *Config) Validate() error {
	if c.ContractAddress == "" {
		return fmt.Errorf("%w: contract address is required", domain.ErrInvalidConfig)
	}
	if c.DeleteTargetConfirmationsMultiplier < 1 {
		return fmt.Errorf("%w: delete target confirmations multiplier must be at least 1, got %v",
			domain.ErrInvalidConfig, c.DeleteTargetConfirmationsMultiplier)
	}

	switch c.EmissionPolicy {
	case "":
		c.EmissionPolicy = EmissionPolicyThreshold
	case EmissionPolicyThreshold, EmissionPolicyExact:
	default:
		return fmt.Errorf("%w: unknown emission policy %q", domain.ErrInvalidConfig, c.EmissionPolicy)
	}

	if c.ValidationConcurrency <= 0 {
		c.ValidationConcurrency = defaultValidationConcurrency
	}

	return nil
}
