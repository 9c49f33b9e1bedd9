package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tenant, managed outside this engine.
type Status string

const (
	StatusActive    Status = "active"
	StatusTrial     Status = "trial"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
)

// Tenant carries the subset of tenant state the entitlement engine reads
// and, for the block fields, writes.
type Tenant struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	PlanKey string    `json:"plan_key"`
	Status  Status    `json:"status"`

	// Block state is derived from enforcer decisions. Blocked tenants are
	// rejected by write-path handlers until a plan upgrade clears the flag.
	Blocked     bool   `json:"blocked"`
	BlockReason string `json:"block_reason,omitempty"`

	// LastActivityAt is stamped opportunistically by request handlers and
	// read by the inactivity sweep. Zero means never recorded.
	LastActivityAt time.Time `json:"last_activity_at,omitzero"`

	// SubscriptionEndsAt is the end of the current billing period. Zero
	// means no subscription on record.
	SubscriptionEndsAt time.Time `json:"subscription_ends_at,omitzero"`

	CreatedAt time.Time `json:"created_at"`
}

// Directory loads and updates tenants from the authoritative tenant store.
type Directory interface {
	// GetByID retrieves a tenant by ID.
	// Returns ErrTenantNotFound if no tenant matches.
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// ListByStatus returns all tenants in any of the given statuses.
	ListByStatus(ctx context.Context, statuses ...Status) ([]Tenant, error)

	// UpdateBlockState sets or clears the tenant-wide block flag and reason.
	UpdateBlockState(ctx context.Context, id uuid.UUID, blocked bool, reason string) error

	// UpdateLastActivity stamps the tenant's last-activity timestamp.
	UpdateLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error
}
