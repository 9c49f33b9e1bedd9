package feature

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Flag is a globally defined feature switch. Flags are append-only in
// practice: operators create and edit them but deletion is not modeled.
type Flag struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`

	// DefaultEnabled is the global fallback when neither an override nor
	// the tenant's plan says anything about the flag.
	DefaultEnabled bool `json:"default_enabled"`

	// Dependencies lists flag keys that must all resolve enabled for a
	// tenant before this flag may be turned on for that tenant.
	Dependencies []string `json:"dependencies,omitempty"`

	Experimental bool      `json:"experimental,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

// Assignment is a tenant-specific override, the highest-precedence signal
// in resolution. Deleting it reverts the tenant to plan/default behavior.
type Assignment struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	FlagKey   string    `json:"flag_key"`
	Enabled   bool      `json:"enabled"`
	Actor     string    `json:"actor,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// FlagStore persists flag definitions.
type FlagStore interface {
	// Get returns the flag with the given key.
	// Returns ErrFlagNotFound if no such flag exists.
	Get(ctx context.Context, key string) (*Flag, error)

	// List returns all flags sorted by key.
	List(ctx context.Context) ([]Flag, error)

	// Create adds a new flag. Implementations must reject duplicate keys,
	// references to unknown dependencies, and dependency cycles.
	Create(ctx context.Context, f *Flag) error

	// Update replaces an existing flag, with the same validation as Create.
	Update(ctx context.Context, f *Flag) error
}

// AssignmentStore persists tenant overrides.
type AssignmentStore interface {
	// Get returns the override for (tenantID, flagKey).
	// Returns ErrAssignmentNotFound if the tenant has no override.
	Get(ctx context.Context, tenantID uuid.UUID, flagKey string) (*Assignment, error)

	// ListByTenant returns all overrides for a tenant sorted by flag key.
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Assignment, error)

	// Put creates or replaces an override.
	Put(ctx context.Context, a *Assignment) error

	// Delete removes an override, reverting the tenant to defaults.
	// Returns ErrAssignmentNotFound if no override exists.
	Delete(ctx context.Context, tenantID uuid.UUID, flagKey string) error
}
