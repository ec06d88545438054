package ethereum

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/logger"
)

// ReceiptValidator checks whether a recorded event is still part of the canonical chain
//
//go:generate mockgen -source=receipt.go -destination=../../mocks/receipt_validator.go -package=mocks -mock_names=ReceiptValidator=MockReceiptValidator
type ReceiptValidator interface {
	// ValidateReceipt reports whether the transaction succeeded and was mined in the given block.
	// Provider failures are returned as errors; a transaction unknown to the node is reported as invalid.
	ValidateReceipt(ctx context.Context, txHash string, blockNumber uint64) (bool, error)
}

type receiptValidator struct {
	client adapter.EthClient
}

// NewReceiptValidator creates a receipt validator backed by an Ethereum RPC client
func NewReceiptValidator(client adapter.EthClient) ReceiptValidator {
	return &receiptValidator{client: client}
}

func (v *receiptValidator) ValidateReceipt(ctx context.Context, txHash string, blockNumber uint64) (bool, error) {
	receipt, err := v.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			logger.DebugCtx(ctx, "Transaction receipt not found",
				zap.String("tx_hash", txHash),
				zap.Uint64("block_number", blockNumber))
			return false, nil
		}
		return false, fmt.Errorf("failed to get transaction receipt %s: %w", txHash, err)
	}

	if receipt == nil || receipt.BlockNumber == nil {
		return false, nil
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		logger.DebugCtx(ctx, "Transaction reverted",
			zap.String("tx_hash", txHash),
			zap.Uint64("status", receipt.Status))
		return false, nil
	}

	if receipt.BlockNumber.Uint64() != blockNumber {
		logger.DebugCtx(ctx, "Transaction moved to another block",
			zap.String("tx_hash", txHash),
			zap.Uint64("recorded_block", blockNumber),
			zap.Uint64("receipt_block", receipt.BlockNumber.Uint64()))
		return false, nil
	}

	return true, nil
}
