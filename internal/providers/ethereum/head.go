package ethereum

import (
	"context"
	"fmt"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/block"
	"github.com/feral-file/ff-confirmator/internal/domain"
)

// headFetcher implements block.HeadFetcher for Ethereum
type headFetcher struct {
	client adapter.EthClient
}

// NewHeadFetcher creates a head fetcher reading the latest header from an Ethereum RPC client
func NewHeadFetcher(client adapter.EthClient) block.HeadFetcher {
	return &headFetcher{client: client}
}

// FetchHead fetches the latest block header from Ethereum
func (f *headFetcher) FetchHead(ctx context.Context) (domain.Block, error) {
	header, err := f.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return domain.Block{}, fmt.Errorf("failed to get latest header: %w", err)
	}
	if header == nil || header.Number == nil {
		return domain.Block{}, fmt.Errorf("latest header is empty: %w", domain.ErrInvalidBlock)
	}

	return domain.Block{
		Number: header.Number.Uint64(),
		Hash:   header.Hash().Hex(),
	}, nil
}
