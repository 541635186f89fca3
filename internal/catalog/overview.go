// Package catalog memoizes the weekly best-sellers overview per calendar day.
package catalog

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/cache"
	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/nyt"
)

// DateLayout formats cache keys and the published_date parameter.
const DateLayout = "2006-01-02"

const keyPrefix = "overview:"

// OverviewProvider fetches the weekly overview from the upstream API.
type OverviewProvider interface {
	FullOverview(ctx context.Context, publishedDate string) ([]nyt.List, error)
}

// Stats counts cache lookups since startup.
type Stats struct {
	Hits   int
	Misses int
}

// Cache answers WeeklyOverview from the store while an entry for the day is
// younger than the TTL and asks the provider otherwise. Failed fetches are
// never stored.
type Cache struct {
	provider OverviewProvider
	store    *prefixedStore[[]nyt.List]
	ttl      time.Duration
	closer   func() error
	group    singleflight.Group
}

// New creates the overview cache over the configured backend.
func New(provider OverviewProvider, cfg config.Cache) (*Cache, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = config.DefaultOverviewTTL
	}

	backend, closer, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	log.Info("overview cache initialized", "type", cfg.Type, "ttl", cfg.TTL)
	return newCache(provider, backend, cfg.TTL, closer), nil
}

func newCache(provider OverviewProvider, backend *cache.Cache[[]byte], ttl time.Duration, closer func() error) *Cache {
	return &Cache{
		provider: provider,
		store:    newPrefixedStore[[]nyt.List](backend, keyPrefix),
		ttl:      ttl,
		closer:   closer,
	}
}

// Key returns the cache key for a date.
func Key(date time.Time) string {
	return date.Format(DateLayout)
}

// WeeklyOverview returns the lists published for the week containing date.
// Concurrent misses for the same day share one upstream call, which is
// detached from any single caller's cancellation. A caller whose ctx ends
// stops waiting without affecting the others.
func (c *Cache) WeeklyOverview(ctx context.Context, date time.Time) ([]nyt.List, error) {
	key := Key(date)

	if lists, err := c.store.Get(ctx, key); err == nil {
		return lists, nil
	}

	fetch := c.group.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		lists, err := c.provider.FullOverview(fetchCtx, key)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(fetchCtx, key, lists, c.ttl); err != nil {
			log.Warn("failed to cache overview", "date", key, "error", err)
		}
		return lists, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-fetch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug("overview fetch shared", "date", key)
		}
		return res.Val.([]nyt.List), nil
	}
}

// Stats reports the store's hit and miss counts.
func (c *Cache) Stats() Stats {
	s := c.store.Stats()
	return Stats{Hits: s.Hits, Misses: s.Miss}
}

// Close releases the backend connection.
func (c *Cache) Close() error {
	return c.closer()
}
