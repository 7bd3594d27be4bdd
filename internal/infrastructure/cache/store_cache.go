package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

const (
	storeKeyPrefix = "store:slug:"
	// StoreTTL vigencia de una tienda en caché.
	StoreTTL = 5 * time.Minute
)

var (
	_ ports.StoreCache = (*RedisStoreCache)(nil)
	_ ports.StoreCache = (*MemoryStoreCache)(nil)
)

// RedisStoreCache tiendas serializadas en JSON bajo store:slug:<slug>.
type RedisStoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStoreCache(client *redis.Client) *RedisStoreCache {
	return &RedisStoreCache{client: client, ttl: StoreTTL}
}

func (c *RedisStoreCache) Get(ctx context.Context, slug string) (*entity.Store, error) {
	raw, err := c.client.Get(ctx, storeKeyPrefix+slug).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: leer tienda: %w", err)
	}
	var s entity.Store
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("redis: decodificar tienda: %w", err)
	}
	return &s, nil
}

func (c *RedisStoreCache) Set(ctx context.Context, store *entity.Store) error {
	raw, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("redis: codificar tienda: %w", err)
	}
	if err := c.client.Set(ctx, storeKeyPrefix+store.Slug, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: guardar tienda: %w", err)
	}
	return nil
}

func (c *RedisStoreCache) Invalidate(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, storeKeyPrefix+slug).Err(); err != nil {
		return fmt.Errorf("redis: invalidar tienda: %w", err)
	}
	return nil
}

type cachedStore struct {
	store   entity.Store
	expires time.Time
}

// MemoryStoreCache variante en memoria con la misma vigencia.
type MemoryStoreCache struct {
	mu    sync.RWMutex
	items map[string]cachedStore
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStoreCache() *MemoryStoreCache {
	return &MemoryStoreCache{items: make(map[string]cachedStore), ttl: StoreTTL, now: time.Now}
}

func (c *MemoryStoreCache) Get(_ context.Context, slug string) (*entity.Store, error) {
	c.mu.RLock()
	item, ok := c.items[slug]
	c.mu.RUnlock()
	if !ok || !c.now().Before(item.expires) {
		return nil, nil
	}
	s := item.store
	return &s, nil
}

func (c *MemoryStoreCache) Set(_ context.Context, store *entity.Store) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[store.Slug] = cachedStore{store: *store, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryStoreCache) Invalidate(_ context.Context, slug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, slug)
	return nil
}
