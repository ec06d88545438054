package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-confirmator/internal/adapter"
	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/logger"
)

// cachedHead is the last fetched chain head and when it was fetched
type cachedHead struct {
	head      domain.Block
	fetchedAt time.Time
}

// HeadProvider provides cached access to the current chain head.
// The status API and the watcher share one instance so a burst of reads costs a single RPC.
//
//go:generate mockgen -source=head.go -destination=../mocks/block_head_provider.go -package=mocks -mock_names=HeadProvider=MockHeadProvider,HeadFetcher=MockHeadFetcher
type HeadProvider interface {
	// GetHead returns the current chain head, potentially from cache
	GetHead(ctx context.Context) (domain.Block, error)
}

// HeadFetcher is the interface for fetching the chain head from the blockchain
type HeadFetcher interface {
	// FetchHead fetches the latest block header from the blockchain
	FetchHead(ctx context.Context) (domain.Block, error)
}

// Config holds configuration for the HeadProvider
type Config struct {
	// TTL is how long to cache the head. Zero disables caching.
	TTL time.Duration

	// StaleWindow is how long to use stale data if fetching fails
	// If the cached data is older than this and fetch fails, return error
	StaleWindow time.Duration
}

type headProvider struct {
	fetcher HeadFetcher
	config  Config
	clock   adapter.Clock

	mu     sync.RWMutex
	cached *cachedHead
}

// NewHeadProvider creates a new HeadProvider with caching
func NewHeadProvider(fetcher HeadFetcher, config Config, clock adapter.Clock) HeadProvider {
	return &headProvider{
		fetcher: fetcher,
		config:  config,
		clock:   clock,
	}
}

// GetHead returns the current chain head, using cache if valid
func (p *headProvider) GetHead(ctx context.Context) (domain.Block, error) {
	p.mu.RLock()
	cached := p.cached
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.fetchedAt) < p.config.TTL {
		logger.DebugCtx(ctx, "Using cached chain head", zap.Uint64("block_number", cached.head.Number))
		return cached.head, nil
	}

	logger.DebugCtx(ctx, "Fetching chain head from blockchain provider")
	head, err := p.fetcher.FetchHead(ctx)
	if err != nil {
		if cached != nil && now.Sub(cached.fetchedAt) < p.config.StaleWindow {
			logger.WarnCtx(ctx, "Using stale chain head",
				zap.Error(err),
				zap.Uint64("block_number", cached.head.Number))
			return cached.head, nil
		}
		return domain.Block{}, fmt.Errorf("failed to fetch chain head and no valid cache available: %w", err)
	}

	p.mu.Lock()
	// never let the cache move backwards when a lagging node answers
	if p.cached == nil || head.Number >= p.cached.head.Number {
		p.cached = &cachedHead{head: head, fetchedAt: now}
	} else {
		head = p.cached.head
	}
	p.mu.Unlock()

	return head, nil
}
