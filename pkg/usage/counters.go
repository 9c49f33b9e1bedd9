package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CounterFunc returns the current live count of a resource for a tenant.
// Should be fast: cache or aggregate at repository level.
type CounterFunc func(ctx context.Context, tenantID uuid.UUID) (int64, error)

// RangeCounterFunc counts entities whose relevant timestamp falls within
// [start, end), scoped to the tenant.
type RangeCounterFunc func(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int64, error)

// Counters supplies live entity counts from the authoritative stores.
// All three are required.
type Counters struct {
	// Clients counts all client records for the tenant.
	Clients CounterFunc

	// Coaches counts active coaches only.
	Coaches CounterFunc

	// Sessions counts sessions starting within the given window. The
	// calculator passes the current calendar month.
	Sessions RangeCounterFunc
}

func (c Counters) validate() error {
	if c.Clients == nil {
		return fmt.Errorf("%w: clients", ErrCounterRequired)
	}
	if c.Coaches == nil {
		return fmt.Errorf("%w: coaches", ErrCounterRequired)
	}
	if c.Sessions == nil {
		return fmt.Errorf("%w: sessions", ErrCounterRequired)
	}
	return nil
}
