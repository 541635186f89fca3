package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/eko/gocache/lib/v4/store"
	go_store "github.com/eko/gocache/store/go_cache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/mrlokans/bestsellers/internal/config"
)

// prefixedStore stores JSON-encoded values of type T under prefix+key.
type prefixedStore[T any] struct {
	cache  *cache.Cache[[]byte]
	prefix string
}

func newPrefixedStore[T any](c *cache.Cache[[]byte], prefix string) *prefixedStore[T] {
	return &prefixedStore[T]{cache: c, prefix: prefix}
}

func (p *prefixedStore[T]) key(key string) string {
	return p.prefix + key
}

// Get decodes the entry under key. The memory store hands back the bytes
// that were set while the redis store returns them as a string.
func (p *prefixedStore[T]) Get(ctx context.Context, key string) (T, error) {
	var result T
	raw, err := p.cache.GetCodec().Get(ctx, p.key(key))
	if err != nil {
		return result, err
	}

	var data []byte
	switch v := raw.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return result, fmt.Errorf("cached %s has unexpected type %T", key, raw)
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return result, nil
}

func (p *prefixedStore[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return p.cache.Set(ctx, p.key(key), data, store.WithExpiration(ttl))
}

func (p *prefixedStore[T]) Stats() *codec.Stats {
	return p.cache.GetCodec().GetStats()
}

func newMemoryCache(ttl time.Duration) *cache.Cache[[]byte] {
	client := gocache.New(ttl, 10*time.Minute)
	return cache.New[[]byte](go_store.NewGoCache(client))
}

func newRedisCache(client redis_store.RedisClientInterface) *cache.Cache[[]byte] {
	return cache.New[[]byte](redis_store.NewRedis(client))
}

// newBackend picks the cache backend from the configuration. The returned
// closer releases the redis connection pool and is a no-op for memory.
func newBackend(cfg config.Cache) (*cache.Cache[[]byte], func() error, error) {
	switch cfg.Type {
	case config.CacheTypeMemory, "":
		return newMemoryCache(cfg.TTL), func() error { return nil }, nil
	case config.CacheTypeRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		return newRedisCache(client), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
