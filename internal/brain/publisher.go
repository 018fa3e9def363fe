package brain

import (
	"context"
	"fmt"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/pkg/redis"
)

// Publisher makes a finished run visible to readers (API, dashboards)
type Publisher interface {
	Publish(ctx context.Context, snapshot *contracts.ConfluenceSnapshot, state *contracts.LedgerState) error
}

// CachePublisher writes the run's artifacts into the redis cache
type CachePublisher struct {
	cache *redis.Cache
}

// NewCachePublisher creates a publisher on top of cache
func NewCachePublisher(cache *redis.Cache) *CachePublisher {
	return &CachePublisher{cache: cache}
}

// Publish stores the snapshot under its date and as latest; state is optional
func (p *CachePublisher) Publish(ctx context.Context, snapshot *contracts.ConfluenceSnapshot, state *contracts.LedgerState) error {
	if err := p.cache.Set(ctx, redis.ConfluenceKey(snapshot.Date), snapshot, redis.TTLDaily); err != nil {
		return fmt.Errorf("publish confluence %s: %w", snapshot.Date, err)
	}
	if err := p.cache.Set(ctx, redis.ConfluenceLatestKey(), snapshot, redis.TTLDaily); err != nil {
		return fmt.Errorf("publish latest confluence: %w", err)
	}
	if state != nil {
		if err := p.cache.Set(ctx, redis.LedgerStateKey(), state, redis.TTLDaily); err != nil {
			return fmt.Errorf("publish ledger state: %w", err)
		}
	}
	return nil
}
