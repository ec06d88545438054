package ethereum

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/feral-file/ff-confirmator/internal/domain"
)

// DecoderConfig holds the confirmation targets applied to decoded events
type DecoderConfig struct {
	// DefaultTargetConfirmation applies to events without a specific target. Must be at least 1.
	DefaultTargetConfirmation uint64
	// TargetConfirmations overrides the target per event name
	TargetConfirmations map[string]uint64
}

// EventDecoder turns raw logs of one contract into pending events.
// The payload is decoded once here and stored as-is until it is published.
//
//go:generate mockgen -source=decoder.go -destination=../../mocks/event_decoder.go -package=mocks -mock_names=EventDecoder=MockEventDecoder
type EventDecoder interface {
	Decode(vLog types.Log) (*domain.Event, error)
}

type eventDecoder struct {
	abi    abi.ABI
	config DecoderConfig
}

// NewEventDecoder creates a decoder for the contract described by the given JSON ABI
func NewEventDecoder(contractABI string, cfg DecoderConfig) (EventDecoder, error) {
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	if cfg.DefaultTargetConfirmation == 0 {
		return nil, fmt.Errorf("default target confirmation must be at least 1: %w", domain.ErrInvalidConfig)
	}
	for name, target := range cfg.TargetConfirmations {
		if target == 0 {
			return nil, fmt.Errorf("target confirmation of %s must be at least 1: %w", name, domain.ErrInvalidConfig)
		}
	}

	return &eventDecoder{abi: parsed, config: cfg}, nil
}

func (d *eventDecoder) Decode(vLog types.Log) (*domain.Event, error) {
	if vLog.Removed {
		return nil, fmt.Errorf("log %s:%d was removed by a reorg: %w", vLog.TxHash.Hex(), vLog.Index, domain.ErrInvalidEventLog)
	}
	if len(vLog.Topics) == 0 {
		return nil, fmt.Errorf("log %s:%d has no topics: %w", vLog.TxHash.Hex(), vLog.Index, domain.ErrInvalidEventLog)
	}

	ev, err := d.abi.EventByID(vLog.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("unknown event signature %s: %w", vLog.Topics[0].Hex(), domain.ErrInvalidEventLog)
	}

	values := make(map[string]any)
	if err := ev.Inputs.UnpackIntoMap(values, vLog.Data); err != nil {
		return nil, fmt.Errorf("failed to unpack %s data: %w", ev.RawName, err)
	}

	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if err := abi.ParseTopicsIntoMap(values, indexed, vLog.Topics[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse %s topics: %w", ev.RawName, err)
	}

	returnValues := make(map[string]any, len(values))
	for name, value := range values {
		returnValues[name] = normalizeValue(value)
	}

	topics := make([]string, 0, len(vLog.Topics))
	for _, topic := range vLog.Topics {
		topics = append(topics, topic.Hex())
	}

	content := domain.EventContent{
		Address:          vLog.Address.Hex(),
		BlockNumber:      vLog.BlockNumber,
		BlockHash:        vLog.BlockHash.Hex(),
		TransactionHash:  vLog.TxHash.Hex(),
		TransactionIndex: vLog.TxIndex,
		LogIndex:         vLog.Index,
		Event:            ev.RawName,
		Signature:        ev.ID.Hex(),
		Topics:           topics,
		Data:             hexutil.Encode(vLog.Data),
		ReturnValues:     returnValues,
	}

	return &domain.Event{
		ID:                 uuid.NewString(),
		ContractAddress:    content.Address,
		TransactionHash:    content.TransactionHash,
		BlockNumber:        content.BlockNumber,
		BlockHash:          content.BlockHash,
		LogIndex:           content.LogIndex,
		Event:              content.Event,
		Content:            content,
		TargetConfirmation: d.targetConfirmation(ev.RawName),
	}, nil
}

func (d *eventDecoder) targetConfirmation(eventName string) uint64 {
	if target, ok := d.config.TargetConfirmations[eventName]; ok {
		return target
	}
	// Config loaders may lowercase map keys
	for name, target := range d.config.TargetConfirmations {
		if strings.EqualFold(name, eventName) {
			return target
		}
	}
	return d.config.DefaultTargetConfirmation
}

// normalizeValue converts ABI-decoded values into JSON-stable representations.
// Integers are kept as decimal strings so they survive a JSONB round trip without precision loss.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case *big.Int:
		return v.String()
	case common.Address:
		return v.Hex()
	case common.Hash:
		return v.Hex()
	case []byte:
		return hexutil.Encode(v)
	case [32]byte:
		return hexutil.Encode(v[:])
	case uint8, uint16, uint32, uint64, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case []*big.Int:
		out := make([]string, 0, len(v))
		for _, n := range v {
			out = append(out, n.String())
		}
		return out
	case []common.Address:
		out := make([]string, 0, len(v))
		for _, a := range v {
			out = append(out, a.Hex())
		}
		return out
	default:
		return v
	}
}
