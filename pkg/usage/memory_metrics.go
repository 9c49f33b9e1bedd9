package usage

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryMetricStore is a mutex-guarded in-memory MetricStore for tests and
// embedded deployments.
type MemoryMetricStore struct {
	mu      sync.RWMutex
	buckets map[bucketKey]*Metric
}

type bucketKey struct {
	tenantID uuid.UUID
	mt       MetricType
	day      time.Time
}

// NewMemoryMetricStore returns an empty in-memory metric store.
func NewMemoryMetricStore() *MemoryMetricStore {
	return &MemoryMetricStore{buckets: make(map[bucketKey]*Metric)}
}

func (s *MemoryMetricStore) UpsertDaily(ctx context.Context, tenantID uuid.UUID, mt MetricType, delta int64, metadata map[string]int64) error {
	if mt == "" {
		return fmt.Errorf("%w: empty metric type", ErrInvalidMetric)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := bucketKey{tenantID, mt, Day(time.Now())}
	m, exists := s.buckets[key]
	if !exists {
		m = &Metric{
			TenantID: tenantID,
			Type:     mt,
			Day:      key.day,
			Metadata: make(map[string]int64),
		}
		s.buckets[key] = m
	}

	m.Value += delta
	for k, v := range metadata {
		m.Metadata[k] += v
	}
	return nil
}

func (s *MemoryMetricStore) SumInRange(ctx context.Context, tenantID uuid.UUID, mt MetricType, start, end time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum int64
	for key, m := range s.buckets {
		if key.tenantID != tenantID || key.mt != mt {
			continue
		}
		if !key.day.Before(start) && key.day.Before(end) {
			sum += m.Value
		}
	}
	return sum, nil
}

func (s *MemoryMetricStore) Latest(ctx context.Context, tenantID uuid.UUID, mt MetricType) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *Metric
	for key, m := range s.buckets {
		if key.tenantID != tenantID || key.mt != mt {
			continue
		}
		if latest == nil || key.day.After(latest.Day) {
			latest = m
		}
	}
	if latest == nil {
		return 0, nil
	}
	return latest.Value, nil
}

// Seed writes a metric bucket directly, bypassing the current-day bucketing
// of UpsertDaily. Test fixture helper.
func (s *MemoryMetricStore) Seed(m Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := m
	cp.Day = Day(m.Day)
	cp.Metadata = maps.Clone(m.Metadata)
	s.buckets[bucketKey{m.TenantID, m.Type, cp.Day}] = &cp
}
