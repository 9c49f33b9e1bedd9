package tenant

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCacheTTL bounds how stale a cached tenant read may be. Block-state
// changes invalidate eagerly, so the TTL only governs external edits.
const DefaultCacheTTL = 30 * time.Second

// CachedDirectory wraps a Directory with a TTL read cache on GetByID.
// Writes go straight through and invalidate the cached entry, so a tenant
// blocked by the enforcer is observed blocked on the next read.
type CachedDirectory struct {
	next Directory
	ttl  time.Duration

	mu    sync.RWMutex
	items map[uuid.UUID]cacheItem
}

type cacheItem struct {
	tenant    Tenant
	expiresAt time.Time
}

// NewCachedDirectory wraps next with a TTL cache. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewCachedDirectory(next Directory, ttl time.Duration) *CachedDirectory {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedDirectory{
		next:  next,
		ttl:   ttl,
		items: make(map[uuid.UUID]cacheItem),
	}
}

func (c *CachedDirectory) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	c.mu.RLock()
	item, exists := c.items[id]
	c.mu.RUnlock()

	if exists && time.Now().Before(item.expiresAt) {
		t := item.tenant
		return &t, nil
	}

	t, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items[id] = cacheItem{tenant: *t, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return t, nil
}

// ListByStatus is not cached: sweeps run on their own schedule and must see
// current membership.
func (c *CachedDirectory) ListByStatus(ctx context.Context, statuses ...Status) ([]Tenant, error) {
	return c.next.ListByStatus(ctx, statuses...)
}

func (c *CachedDirectory) UpdateBlockState(ctx context.Context, id uuid.UUID, blocked bool, reason string) error {
	if err := c.next.UpdateBlockState(ctx, id, blocked, reason); err != nil {
		return err
	}
	c.invalidate(id)
	return nil
}

func (c *CachedDirectory) UpdateLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := c.next.UpdateLastActivity(ctx, id, at); err != nil {
		return err
	}
	c.invalidate(id)
	return nil
}

func (c *CachedDirectory) invalidate(id uuid.UUID) {
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
}
