package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MetricType identifies an accumulated or sampled usage metric. Metrics
// cover what cannot be derived from a live entity count.
type MetricType string

const (
	MetricSMS     MetricType = "sms"
	MetricEmail   MetricType = "email"
	MetricStorage MetricType = "storage" // megabytes, gauge semantics
)

// Metric is one day's accumulated value for a tenant metric. Metadata is
// merged additively on repeat writes within the same day, so callers can
// track sub-counts (e.g. per campaign) without extra tables.
type Metric struct {
	TenantID uuid.UUID        `json:"tenant_id"`
	Type     MetricType       `json:"type"`
	Day      time.Time        `json:"day"` // UTC midnight
	Value    int64            `json:"value"`
	Metadata map[string]int64 `json:"metadata,omitempty"`
}

// MetricStore records and aggregates usage metrics.
type MetricStore interface {
	// UpsertDaily adds delta to the metric bucket for (tenantID, mt, today)
	// and merges metadata additively into the bucket's metadata.
	UpsertDaily(ctx context.Context, tenantID uuid.UUID, mt MetricType, delta int64, metadata map[string]int64) error

	// SumInRange sums daily values with start <= day < end.
	SumInRange(ctx context.Context, tenantID uuid.UUID, mt MetricType, start, end time.Time) (int64, error)

	// Latest returns the most recent daily value, or 0 if none recorded.
	// Used for gauge metrics such as storage.
	Latest(ctx context.Context, tenantID uuid.UUID, mt MetricType) (int64, error)
}

// Day truncates t to UTC midnight, the bucket granularity of MetricStore.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthRange returns the half-open window [first of month, now] used for
// monthly metrics, in UTC.
func MonthRange(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, now
}
