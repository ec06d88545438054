package ratelimit

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/feral-file/ff-confirmator/internal/adapter"
)

type ethClient struct {
	client  adapter.EthClient
	limiter Limiter
}

// NewEthClient wraps an Ethereum client so that every RPC call takes a token first
func NewEthClient(client adapter.EthClient, limiter Limiter) adapter.EthClient {
	return &ethClient{client: client, limiter: limiter}
}

func (c *ethClient) BlockNumber(ctx context.Context) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return c.client.BlockNumber(ctx)
}

func (c *ethClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.client.HeaderByNumber(ctx, number)
}

func (c *ethClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.client.TransactionReceipt(ctx, txHash)
}

func (c *ethClient) ChainID(ctx context.Context) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.client.ChainID(ctx)
}

func (c *ethClient) Close() {
	c.client.Close()
}
