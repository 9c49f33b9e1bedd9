package tenant

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryDirectory is a mutex-guarded in-memory Directory for tests and
// embedded deployments.
type MemoryDirectory struct {
	mu      sync.RWMutex
	tenants map[uuid.UUID]Tenant
}

// NewMemoryDirectory returns an in-memory directory seeded with the given
// tenants.
func NewMemoryDirectory(tenants ...Tenant) (*MemoryDirectory, error) {
	d := &MemoryDirectory{tenants: make(map[uuid.UUID]Tenant, len(tenants))}
	for _, t := range tenants {
		if t.ID == uuid.Nil {
			return nil, fmt.Errorf("%w: zero tenant ID", ErrInvalidTenant)
		}
		d.tenants[t.ID] = t
	}
	return d, nil
}

// Put creates or replaces a tenant record. Test fixture helper; production
// tenant lifecycle lives outside this engine.
func (d *MemoryDirectory) Put(t Tenant) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tenants[t.ID] = t
}

func (d *MemoryDirectory) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, exists := d.tenants[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTenantNotFound, id)
	}
	return &t, nil
}

func (d *MemoryDirectory) ListByStatus(ctx context.Context, statuses ...Status) ([]Tenant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]Tenant, 0)
	for _, t := range d.tenants {
		if slices.Contains(statuses, t.Status) {
			result = append(result, t)
		}
	}
	slices.SortFunc(result, func(a, b Tenant) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result, nil
}

func (d *MemoryDirectory) UpdateBlockState(ctx context.Context, id uuid.UUID, blocked bool, reason string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, exists := d.tenants[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTenantNotFound, id)
	}
	t.Blocked = blocked
	t.BlockReason = reason
	d.tenants[id] = t
	return nil
}

func (d *MemoryDirectory) UpdateLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, exists := d.tenants[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTenantNotFound, id)
	}
	t.LastActivityAt = at
	d.tenants[id] = t
	return nil
}
