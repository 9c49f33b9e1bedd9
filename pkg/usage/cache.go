package usage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Cache stores computed snapshots for dashboard reads. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*Snapshot, bool)
	Set(ctx context.Context, tenantID uuid.UUID, snap *Snapshot, ttl time.Duration)
	Delete(ctx context.Context, tenantID uuid.UUID)
}

// memoryCache is a TTL map cache with periodic expiry cleanup.
type memoryCache struct {
	mu    sync.RWMutex
	items map[uuid.UUID]cachedSnapshot
	stop  chan struct{}
	once  sync.Once
}

type cachedSnapshot struct {
	snap      Snapshot
	expiresAt time.Time
}

// NewMemoryCache returns an in-memory snapshot cache. Close stops its
// cleanup goroutine.
func NewMemoryCache() *memoryCache {
	c := &memoryCache{
		items: make(map[uuid.UUID]cachedSnapshot),
		stop:  make(chan struct{}),
	}
	go c.cleanup()
	return c
}

func (c *memoryCache) Get(ctx context.Context, tenantID uuid.UUID) (*Snapshot, bool) {
	c.mu.RLock()
	item, exists := c.items[tenantID]
	c.mu.RUnlock()

	if !exists || time.Now().After(item.expiresAt) {
		return nil, false
	}
	snap := item.snap
	return &snap, true
}

func (c *memoryCache) Set(ctx context.Context, tenantID uuid.UUID, snap *Snapshot, ttl time.Duration) {
	if snap == nil || ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.items[tenantID] = cachedSnapshot{snap: *snap, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *memoryCache) Delete(ctx context.Context, tenantID uuid.UUID) {
	c.mu.Lock()
	delete(c.items, tenantID)
	c.mu.Unlock()
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *memoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *memoryCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for id, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, id)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
