package data

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// Store holds raw asset bytes for a bounded time.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Clear(ctx context.Context)
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process TTL store. Expired entries are dropped lazily on Get
// and in bulk by Sweep.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
	clock clockwork.Clock
}

// NewMemoryStore creates a store whose entries live for ttl. A ttl of zero disables caching.
// A nil clock uses real time.
func NewMemoryStore(ttl time.Duration, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		store: make(map[string]*cacheEntry),
		ttl:   ttl,
		clock: clock,
	}
}

func (c *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.clock.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryStore) Set(_ context.Context, key string, value []byte) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &cacheEntry{
		value:     value,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

func (c *MemoryStore) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*cacheEntry)
}

// Sweep removes expired entries and reports how many were dropped.
func (c *MemoryStore) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	n := 0
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			n++
		}
	}
	return n
}

// RunSweeper sweeps every interval until ctx is done.
func (c *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := c.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.Sweep()
		}
	}
}

// RedisStore shares cached assets between replicas. A ttl of zero disables caching rather
// than storing keys without expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "gridmap:asset:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) {
	if s.ttl <= 0 {
		return
	}
	s.client.Set(ctx, s.prefix+key, value, s.ttl)
}

func (s *RedisStore) Clear(ctx context.Context) {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		s.client.Del(ctx, iter.Val())
	}
}

// CachedSource serves assets from a Store and falls through to the inner source on a miss.
type CachedSource struct {
	inner Source
	store Store

	// OnLookup, if set, is told "hit" or "miss" for every fetch.
	OnLookup func(result string)
}

func NewCachedSource(inner Source, store Store) *CachedSource {
	return &CachedSource{inner: inner, store: store}
}

func (c *CachedSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if raw, ok := c.store.Get(ctx, name); ok {
		c.report("hit")
		return raw, nil
	}
	c.report("miss")
	raw, err := c.inner.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	c.store.Set(ctx, name, raw)
	return raw, nil
}

// Invalidate drops every cached asset so the next load reads the source again.
func (c *CachedSource) Invalidate(ctx context.Context) {
	c.store.Clear(ctx)
}

func (c *CachedSource) report(result string) {
	if c.OnLookup != nil {
		c.OnLookup(result)
	}
}
