package usage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fitstack/entitlements/pkg/async"
	"github.com/fitstack/entitlements/pkg/plan"
	"github.com/fitstack/entitlements/pkg/tenant"
)

// Calculator computes usage snapshots for tenants.
type Calculator struct {
	plans    plan.Catalog
	tenants  tenant.Directory
	counters Counters
	metrics  MetricStore

	cache    Cache
	cacheTTL time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithCache enables write-through snapshot caching with the given TTL.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(calc *Calculator) {
		if c != nil && ttl > 0 {
			calc.cache = c
			calc.cacheTTL = ttl
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(calc *Calculator) {
		if log != nil {
			calc.log = log
		}
	}
}

// WithClock overrides the time source. Tests pin the month window with it.
func WithClock(now func() time.Time) Option {
	return func(calc *Calculator) {
		if now != nil {
			calc.now = now
		}
	}
}

// NewCalculator wires a snapshot calculator over the plan catalog, tenant
// directory, live counters, and metric store.
func NewCalculator(plans plan.Catalog, tenants tenant.Directory, counters Counters, metrics MetricStore, opts ...Option) (*Calculator, error) {
	if err := counters.validate(); err != nil {
		return nil, err
	}

	calc := &Calculator{
		plans:    plans,
		tenants:  tenants,
		counters: counters,
		metrics:  metrics,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(calc)
	}
	return calc, nil
}

// Snapshot computes the tenant's current usage across all metered
// resources. Returns tenant.ErrTenantNotFound for unknown tenants. A
// missing plan record degrades to plan.DefaultLimits with a warning log
// instead of failing the read path.
func (c *Calculator) Snapshot(ctx context.Context, tenantID uuid.UUID) (*Snapshot, error) {
	t, err := c.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	limits := c.limitsFor(ctx, t.PlanKey)

	now := c.now()
	monthStart, monthEnd := MonthRange(now)

	clients, err := c.counters.Clients(ctx, tenantID)
	if err != nil {
		return nil, errors.Join(ErrFailedToCount, err)
	}
	coaches, err := c.counters.Coaches(ctx, tenantID)
	if err != nil {
		return nil, errors.Join(ErrFailedToCount, err)
	}
	sessions, err := c.counters.Sessions(ctx, tenantID, monthStart, monthEnd)
	if err != nil {
		return nil, errors.Join(ErrFailedToCount, err)
	}

	sms, err := c.metrics.SumInRange(ctx, tenantID, MetricSMS, monthStart, monthEnd)
	if err != nil {
		return nil, errors.Join(ErrFailedToCount, err)
	}
	email, err := c.metrics.SumInRange(ctx, tenantID, MetricEmail, monthStart, monthEnd)
	if err != nil {
		return nil, errors.Join(ErrFailedToCount, err)
	}
	// Storage is a point-in-time gauge: the latest sample, never a sum.
	storage, err := c.metrics.Latest(ctx, tenantID, MetricStorage)
	if err != nil {
		return nil, errors.Join(ErrFailedToCount, err)
	}

	snap := &Snapshot{
		TenantID:  tenantID,
		PlanKey:   t.PlanKey,
		TakenAt:   now,
		Clients:   NewGauge(clients, limits.Clients),
		Coaches:   NewGauge(coaches, limits.Coaches),
		Sessions:  NewGauge(sessions, limits.Sessions),
		SMS:       NewGauge(sms, limits.SMS),
		Email:     NewGauge(email, limits.Email),
		StorageMB: NewGauge(storage, limits.StorageMB),
	}

	if c.cache != nil {
		c.cache.Set(ctx, tenantID, snap, c.cacheTTL)
	}
	return snap, nil
}

// SnapshotCached returns a cached snapshot when one is fresh, computing and
// caching otherwise. Dashboards use it; enforcement paths call Snapshot for
// a value current at the moment of use.
func (c *Calculator) SnapshotCached(ctx context.Context, tenantID uuid.UUID) (*Snapshot, error) {
	if c.cache != nil {
		if snap, ok := c.cache.Get(ctx, tenantID); ok {
			return snap, nil
		}
	}
	return c.Snapshot(ctx, tenantID)
}

// TenantUsage pairs a tenant with its computed snapshot.
type TenantUsage struct {
	Tenant   tenant.Tenant
	Snapshot *Snapshot
}

// ApproachingLimit returns active and trial tenants whose highest gauge is
// at or above cut percent. Snapshots are computed concurrently; per-tenant
// failures are logged and the tenant skipped so one bad counter does not
// starve a sweep.
func (c *Calculator) ApproachingLimit(ctx context.Context, cut int) ([]TenantUsage, error) {
	tenants, err := c.tenants.ListByStatus(ctx, tenant.StatusActive, tenant.StatusTrial)
	if err != nil {
		return nil, err
	}

	futures := make([]*async.Future[*Snapshot], len(tenants))
	for i, t := range tenants {
		futures[i] = async.Async(ctx, t.ID, c.Snapshot)
	}

	result := make([]TenantUsage, 0)
	for i, f := range futures {
		snap, err := f.Await()
		if err != nil {
			c.log.WarnContext(ctx, "snapshot failed during approaching-limit scan",
				slog.String("tenant_id", tenants[i].ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		if _, pct := snap.MaxPercentage(); pct >= cut {
			result = append(result, TenantUsage{Tenant: tenants[i], Snapshot: snap})
		}
	}
	return result, nil
}

// limitsFor loads the plan's limits, degrading to DefaultLimits when the
// plan record is missing.
func (c *Calculator) limitsFor(ctx context.Context, planKey string) plan.Limits {
	p, err := c.plans.GetByKey(ctx, planKey)
	if err != nil {
		c.log.WarnContext(ctx, "plan not found, using default limits",
			slog.String("plan_key", planKey),
			slog.String("error", err.Error()))
		return plan.DefaultLimits
	}
	return p.Limits
}
