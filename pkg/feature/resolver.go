package feature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fitstack/entitlements/pkg/plan"
	"github.com/fitstack/entitlements/pkg/tenant"
)

// Source tags where a resolved flag value came from.
type Source string

const (
	SourceOverride Source = "override"
	SourcePlan     Source = "plan"
	SourceDefault  Source = "default"
)

// Resolution is one flag's resolved state for a tenant, used by admin UIs
// and audit views. Runtime gating should call IsEnabled per key instead so
// the value is correct at the moment of use.
type Resolution struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
	Source  Source `json:"source"`
}

// Resolver resolves effective flag values for tenants.
type Resolver struct {
	flags       FlagStore
	assignments AssignmentStore
	tenants     tenant.Directory
	plans       plan.Catalog
	log         *slog.Logger
}

// NewResolver wires a resolver over the given stores and directories.
// A nil logger falls back to slog.Default.
func NewResolver(flags FlagStore, assignments AssignmentStore, tenants tenant.Directory, plans plan.Catalog, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		flags:       flags,
		assignments: assignments,
		tenants:     tenants,
		plans:       plans,
		log:         log,
	}
}

// IsEnabled resolves the effective value of one flag for a tenant.
// Precedence, first match wins:
//
//  1. A tenant override returns its value verbatim.
//  2. Inclusion in the tenant's plan returns true.
//  3. The flag's DefaultEnabled. Unknown flags resolve false.
//
// Missing tenant or plan context falls through to the default rather than
// failing; only infrastructure errors propagate.
func (r *Resolver) IsEnabled(ctx context.Context, tenantID uuid.UUID, key string) (bool, error) {
	if a, err := r.assignments.Get(ctx, tenantID, key); err == nil {
		return a.Enabled, nil
	} else if !errors.Is(err, ErrAssignmentNotFound) {
		return false, err
	}

	included, err := r.planIncludes(ctx, tenantID, key)
	if err != nil {
		return false, err
	}
	if included {
		return true, nil
	}

	f, err := r.flags.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrFlagNotFound) {
			return false, nil
		}
		return false, err
	}
	return f.DefaultEnabled, nil
}

// SetOverride pins a flag for a tenant. Enabling requires every declared
// dependency to resolve enabled for the same tenant; the first unmet
// dependency aborts with ErrDependencyNotMet and no record is written.
// Disabling needs no dependency check.
func (r *Resolver) SetOverride(ctx context.Context, tenantID uuid.UUID, key string, enabled bool, actor, notes string) error {
	f, err := r.flags.Get(ctx, key)
	if err != nil {
		return err
	}

	if enabled {
		for _, dep := range f.Dependencies {
			on, err := r.IsEnabled(ctx, tenantID, dep)
			if err != nil {
				return err
			}
			if !on {
				return fmt.Errorf("%w: %s requires %s", ErrDependencyNotMet, key, dep)
			}
		}
	}

	return r.assignments.Put(ctx, &Assignment{
		TenantID: tenantID,
		FlagKey:  key,
		Enabled:  enabled,
		Actor:    actor,
		Notes:    notes,
	})
}

// ClearOverride removes a tenant override, reverting the tenant to
// plan/default resolution.
func (r *Resolver) ClearOverride(ctx context.Context, tenantID uuid.UUID, key string) error {
	return r.assignments.Delete(ctx, tenantID, key)
}

// ResolveAll returns the resolved state of every known flag for a tenant,
// sorted by key, each tagged with the source that decided it.
func (r *Resolver) ResolveAll(ctx context.Context, tenantID uuid.UUID) ([]Resolution, error) {
	flags, err := r.flags.List(ctx)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]bool)
	if list, err := r.assignments.ListByTenant(ctx, tenantID); err == nil {
		for _, a := range list {
			overrides[a.FlagKey] = a.Enabled
		}
	} else {
		return nil, err
	}

	var tenantPlan *plan.Plan
	if t, err := r.tenants.GetByID(ctx, tenantID); err == nil {
		if p, err := r.plans.GetByKey(ctx, t.PlanKey); err == nil {
			tenantPlan = p
		} else if !errors.Is(err, plan.ErrPlanNotFound) {
			return nil, err
		}
	} else if !errors.Is(err, tenant.ErrTenantNotFound) {
		return nil, err
	}

	result := make([]Resolution, 0, len(flags))
	for _, f := range flags {
		res := Resolution{Key: f.Key, Enabled: f.DefaultEnabled, Source: SourceDefault}
		if enabled, ok := overrides[f.Key]; ok {
			res.Enabled = enabled
			res.Source = SourceOverride
		} else if tenantPlan != nil && tenantPlan.HasFeature(f.Key) {
			res.Enabled = true
			res.Source = SourcePlan
		}
		result = append(result, res)
	}
	return result, nil
}

// planIncludes reports whether the tenant's current plan includes the key.
// Unknown tenants or plans are not an error here; resolution falls through
// to the flag default.
func (r *Resolver) planIncludes(ctx context.Context, tenantID uuid.UUID, key string) (bool, error) {
	t, err := r.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return false, nil
		}
		return false, err
	}

	p, err := r.plans.GetByKey(ctx, t.PlanKey)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			r.log.DebugContext(ctx, "tenant references unknown plan",
				slog.String("tenant_id", tenantID.String()),
				slog.String("plan_key", t.PlanKey))
			return false, nil
		}
		return false, err
	}
	return p.HasFeature(key), nil
}
