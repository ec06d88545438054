package ethereum

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/store"
)

// LogIngester records discovered logs as pending events
//
//go:generate mockgen -source=ingester.go -destination=../../mocks/log_ingester.go -package=mocks -mock_names=LogIngester=MockLogIngester
type LogIngester interface {
	// Ingest decodes the logs and stores them. Logs that cannot be decoded are skipped.
	// Returns the number of newly recorded events.
	Ingest(ctx context.Context, logs []types.Log) (int64, error)
}

type logIngester struct {
	decoder EventDecoder
	store   store.EventStore
}

// NewLogIngester creates a log ingester
func NewLogIngester(decoder EventDecoder, eventStore store.EventStore) LogIngester {
	return &logIngester{
		decoder: decoder,
		store:   eventStore,
	}
}

func (i *logIngester) Ingest(ctx context.Context, logs []types.Log) (int64, error) {
	events := make([]domain.Event, 0, len(logs))
	for _, vLog := range logs {
		event, err := i.decoder.Decode(vLog)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidEventLog) {
				logger.WarnCtx(ctx, "Skipping undecodable log",
					zap.Error(err),
					zap.String("tx_hash", vLog.TxHash.Hex()),
					zap.Uint("log_index", vLog.Index))
				continue
			}
			return 0, fmt.Errorf("failed to decode log %s:%d: %w", vLog.TxHash.Hex(), vLog.Index, err)
		}
		events = append(events, *event)
	}

	if len(events) == 0 {
		return 0, nil
	}

	inserted, err := i.store.CreateEvents(ctx, events)
	if err != nil {
		return 0, fmt.Errorf("failed to record events: %w", err)
	}

	logger.InfoCtx(ctx, "Recorded pending events",
		zap.Int("decoded", len(events)),
		zap.Int64("inserted", inserted))

	return inserted, nil
}
