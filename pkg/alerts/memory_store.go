package alerts

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxAlerts bounds the in-memory alert log. Oldest alerts are
// trimmed first once the bound is reached.
const DefaultMaxAlerts = 1000

// MemoryStore is a bounded in-process Store. History does not survive a
// restart; deployments that need durability use NewPGStore instead.
type MemoryStore struct {
	mu      sync.RWMutex
	alerts  []*Alert // append order == creation order
	maxSize int
}

// NewMemoryStore returns an in-memory store bounded to DefaultMaxAlerts.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithSize(DefaultMaxAlerts)
}

// NewMemoryStoreWithSize returns an in-memory store bounded to maxSize.
// Non-positive sizes fall back to DefaultMaxAlerts.
func NewMemoryStoreWithSize(maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = DefaultMaxAlerts
	}
	return &MemoryStore{
		alerts:  make([]*Alert, 0),
		maxSize: maxSize,
	}
}

func (s *MemoryStore) Append(ctx context.Context, a *Alert) error {
	if a == nil || a.ID == uuid.Nil {
		return fmt.Errorf("%w: missing ID", ErrInvalidAlert)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts = append(s.alerts, a.Clone())
	if over := len(s.alerts) - s.maxSize; over > 0 {
		s.alerts = append([]*Alert(nil), s.alerts[over:]...)
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context, f Filter) ([]*Alert, error) {
	s.mu.RLock()
	result := make([]*Alert, 0)
	for _, a := range s.alerts {
		if f.matches(a) {
			result = append(result, a.Clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		if ri, rj := result[i].Severity.rank(), result[j].Severity.rank(); ri != rj {
			return ri < rj
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, nil
}

func (s *MemoryStore) Counts(ctx context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Counts
	for _, a := range s.alerts {
		if a.Acknowledged {
			continue
		}
		switch a.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityWarning:
			c.Warning++
		default:
			c.Info++
		}
		c.Total++
	}
	return c, nil
}

func (s *MemoryStore) Acknowledge(ctx context.Context, id uuid.UUID, actor string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.alerts {
		if a.ID != id {
			continue
		}
		if a.Acknowledged {
			return false, nil
		}
		a.Acknowledged = true
		a.AckBy = actor
		ackAt := at
		a.AckAt = &ackAt
		return true, nil
	}
	return false, fmt.Errorf("%w: %s", ErrAlertNotFound, id)
}

func (s *MemoryStore) AcknowledgeAll(ctx context.Context, f Filter, actor string, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, a := range s.alerts {
		if a.Acknowledged || !f.matches(a) {
			continue
		}
		a.Acknowledged = true
		a.AckBy = actor
		ackAt := at
		a.AckAt = &ackAt
		updated++
	}
	return updated, nil
}

func (s *MemoryStore) DeleteAcknowledgedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.alerts[:0]
	removed := 0
	for _, a := range s.alerts {
		if a.Acknowledged && a.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	s.alerts = kept
	return removed, nil
}

func (s *MemoryStore) LastCreated(ctx context.Context, alertType string, tenantID uuid.UUID, resource string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Append order is creation order; scan backwards for the most recent.
	for i := len(s.alerts) - 1; i >= 0; i-- {
		a := s.alerts[i]
		if a.Type != alertType {
			continue
		}
		if a.TenantID == nil || *a.TenantID != tenantID {
			continue
		}
		if a.resourceTag() != resource {
			continue
		}
		return a.CreatedAt, true, nil
	}
	return time.Time{}, false, nil
}
