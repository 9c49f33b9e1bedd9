package quota

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fitstack/entitlements/pkg/plan"
	"github.com/fitstack/entitlements/pkg/tenant"
	"github.com/fitstack/entitlements/pkg/usage"
)

// Violation describes a resource at or over its plan limit.
type Violation struct {
	Resource plan.Resource `json:"resource"`
	Current  int64         `json:"current"`
	Limit    int64         `json:"limit"`
	PlanKey  string        `json:"plan"`
	Message  string        `json:"message"`
}

// LimitExceededError is the payment-required class error returned by
// Enforce. It is an expected business condition, not a system fault:
// callers surface it (HTTP 402) and never log it at error level.
type LimitExceededError struct {
	Violation Violation
}

func (e *LimitExceededError) Error() string {
	return e.Violation.Message
}

// SnapshotSource computes a current usage snapshot for a tenant.
type SnapshotSource interface {
	Snapshot(ctx context.Context, tenantID uuid.UUID) (*usage.Snapshot, error)
}

// Enforcer decides per-resource whether a tenant is over limit and owns
// the tenant-wide block flag derived from those decisions.
type Enforcer struct {
	snapshots SnapshotSource
	tenants   tenant.Directory
	log       *slog.Logger
}

// NewEnforcer wires an enforcer over a snapshot source and the tenant
// directory. A nil logger falls back to slog.Default.
func NewEnforcer(snapshots SnapshotSource, tenants tenant.Directory, log *slog.Logger) *Enforcer {
	if log == nil {
		log = slog.Default()
	}
	return &Enforcer{snapshots: snapshots, tenants: tenants, log: log}
}

// Check computes a fresh snapshot and inspects only the requested
// resource. Returns a Violation when the limit is bounded and current >=
// limit: the count is measured before the caller adds the new item, so the
// Nth create is rejected when the limit is N. Unlimited resources never
// violate.
func (e *Enforcer) Check(ctx context.Context, tenantID uuid.UUID, res plan.Resource) (*Violation, error) {
	snap, err := e.snapshots.Snapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	g := snap.Gauge(res)
	if g.Limit.IsUnlimited() || g.Current < g.Limit.Value() {
		return nil, nil
	}

	return &Violation{
		Resource: res,
		Current:  g.Current,
		Limit:    g.Limit.Value(),
		PlanKey:  snap.PlanKey,
		Message: fmt.Sprintf("%s limit reached (%d/%d) on plan %q; upgrade to add more",
			res, g.Current, g.Limit.Value(), snap.PlanKey),
	}, nil
}

// Enforce runs Check and, on violation, blocks the tenant and returns a
// *LimitExceededError carrying the violation. The block write and the
// rejection are one logical unit, but the write is fire-and-forget
// relative to the caller's transaction: a failed write is logged and the
// rejection still returned.
func (e *Enforcer) Enforce(ctx context.Context, tenantID uuid.UUID, res plan.Resource) error {
	v, err := e.Check(ctx, tenantID, res)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}

	if err := e.tenants.UpdateBlockState(ctx, tenantID, true, v.Message); err != nil {
		e.log.WarnContext(ctx, "failed to set tenant block state",
			slog.String("tenant_id", tenantID.String()),
			slog.String("resource", string(res)),
			slog.String("error", err.Error()))
	}

	return &LimitExceededError{Violation: *v}
}

// ClearBlock resets the tenant's block flag and reason. Called by
// plan-upgrade flows after capacity changes.
func (e *Enforcer) ClearBlock(ctx context.Context, tenantID uuid.UUID) error {
	return e.tenants.UpdateBlockState(ctx, tenantID, false, "")
}
