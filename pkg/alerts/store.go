package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the bounded, queryable, concurrently-accessible alert log.
// Implementations must be safe for concurrent append, read, and
// acknowledge.
type Store interface {
	// Append adds an alert to the log.
	Append(ctx context.Context, a *Alert) error

	// List returns alerts matching the filter, sorted by severity rank
	// (critical, warning, info) then newest-first, capped by Filter.Limit.
	List(ctx context.Context, f Filter) ([]*Alert, error)

	// Counts tallies unacknowledged alerts by severity.
	Counts(ctx context.Context) (Counts, error)

	// Acknowledge marks one alert acknowledged. Idempotent: an already
	// acknowledged alert is left untouched and reported as not updated.
	// Returns ErrAlertNotFound for unknown IDs.
	Acknowledge(ctx context.Context, id uuid.UUID, actor string, at time.Time) (updated bool, err error)

	// AcknowledgeAll acknowledges every unacknowledged alert matching the
	// filter and returns how many were updated.
	AcknowledgeAll(ctx context.Context, f Filter, actor string, at time.Time) (int, error)

	// DeleteAcknowledgedBefore removes alerts that are both acknowledged
	// and created before the cutoff, returning how many were removed.
	// Unacknowledged alerts are never deleted regardless of age.
	DeleteAcknowledgedBefore(ctx context.Context, cutoff time.Time) (int, error)

	// LastCreated returns the creation time of the most recent alert with
	// the given type, tenant, and resource tag (empty resource matches
	// alerts without one). ok is false when no such alert exists. Sweeps
	// use it to implement dedup windows.
	LastCreated(ctx context.Context, alertType string, tenantID uuid.UUID, resource string) (t time.Time, ok bool, err error)
}
