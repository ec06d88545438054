package ethereum

import (
	"context"
	"fmt"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/domain"
)

// VerifyChain checks that the RPC endpoint serves the configured chain
func VerifyChain(ctx context.Context, client adapter.EthClient, chain domain.Chain) error {
	expected, ok := chain.EVMChainID()
	if !ok {
		return fmt.Errorf("unsupported chain %s: %w", chain, domain.ErrInvalidConfig)
	}

	actual, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}
	if actual == nil || actual.Cmp(expected) != 0 {
		return fmt.Errorf("%w: configured %s, rpc serves eip155:%s", domain.ErrChainMismatch, chain, actual)
	}

	return nil
}
