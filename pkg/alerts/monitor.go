package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fitstack/entitlements/pkg/tenant"
	"github.com/fitstack/entitlements/pkg/usage"
)

// UsageSource feeds the usage threshold sweep.
type UsageSource interface {
	ApproachingLimit(ctx context.Context, cut int) ([]usage.TenantUsage, error)
}

// Monitor owns alert creation, queries, acknowledgement, and the scheduled
// sweeps.
type Monitor struct {
	store   Store
	usage   UsageSource
	tenants tenant.Directory
	cfg     Config
	log     *slog.Logger
	now     func() time.Time

	usageSweep      sweepGuard
	inactiveSweep   sweepGuard
	expirationSweep sweepGuard
	retentionSweep  sweepGuard
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) MonitorOption {
	return func(m *Monitor) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMonitor wires a monitor over an alert store, usage source, and tenant
// directory. Zero-valued cfg fields fall back to DefaultConfig.
func NewMonitor(store Store, usageSrc UsageSource, tenants tenant.Directory, cfg Config, opts ...MonitorOption) *Monitor {
	def := DefaultConfig()
	if cfg.ApproachingCut <= 0 {
		cfg.ApproachingCut = def.ApproachingCut
	}
	if cfg.WarningPct <= 0 {
		cfg.WarningPct = def.WarningPct
	}
	if cfg.UsageDedupWindow <= 0 {
		cfg.UsageDedupWindow = def.UsageDedupWindow
	}
	if cfg.InactiveAfter <= 0 {
		cfg.InactiveAfter = def.InactiveAfter
	}
	if cfg.InactiveDedupWindow <= 0 {
		cfg.InactiveDedupWindow = def.InactiveDedupWindow
	}
	if cfg.ExpiringWithin <= 0 {
		cfg.ExpiringWithin = def.ExpiringWithin
	}
	if cfg.ExpirationDedupWindow <= 0 {
		cfg.ExpirationDedupWindow = def.ExpirationDedupWindow
	}
	if cfg.Retention <= 0 {
		cfg.Retention = def.Retention
	}

	m := &Monitor{
		store:   store,
		usage:   usageSrc,
		tenants: tenants,
		cfg:     cfg,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create appends an alert. No dedup happens at this layer; sweeps apply
// their own windows before calling it.
func (m *Monitor) Create(ctx context.Context, alertType string, severity Severity, category Category, title, message string, tenantID *uuid.UUID, tenantName string, data map[string]any) (*Alert, error) {
	if alertType == "" {
		return nil, fmt.Errorf("%w: empty type", ErrInvalidAlert)
	}
	if !severity.Valid() {
		return nil, fmt.Errorf("%w: severity %q", ErrInvalidAlert, severity)
	}

	a := &Alert{
		ID:         uuid.New(),
		Type:       alertType,
		Severity:   severity,
		Category:   category,
		Title:      title,
		Message:    message,
		TenantID:   tenantID,
		TenantName: tenantName,
		Data:       data,
		CreatedAt:  m.now(),
	}
	if err := m.store.Append(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Query returns alerts matching the filter, sorted by severity rank then
// newest-first.
func (m *Monitor) Query(ctx context.Context, f Filter) ([]*Alert, error) {
	return m.store.List(ctx, f)
}

// Counts tallies unacknowledged alerts by severity.
func (m *Monitor) Counts(ctx context.Context) (Counts, error) {
	return m.store.Counts(ctx)
}

// Acknowledge marks one alert acknowledged. Idempotent.
func (m *Monitor) Acknowledge(ctx context.Context, id uuid.UUID, actor string) error {
	_, err := m.store.Acknowledge(ctx, id, actor, m.now())
	return err
}

// AcknowledgeMany acknowledges all unacknowledged alerts matching the
// filter, returning how many were updated. Already-acknowledged alerts are
// left untouched and not counted.
func (m *Monitor) AcknowledgeMany(ctx context.Context, f Filter, actor string) (int, error) {
	return m.store.AcknowledgeAll(ctx, f, actor, m.now())
}

// deduped reports whether an alert of the same (type, tenant, resource)
// was created within the window.
func (m *Monitor) deduped(ctx context.Context, alertType string, tenantID uuid.UUID, resource string, window time.Duration) bool {
	last, ok, err := m.store.LastCreated(ctx, alertType, tenantID, resource)
	if err != nil {
		m.log.WarnContext(ctx, "dedup lookup failed, suppressing alert",
			slog.String("type", alertType),
			slog.String("tenant_id", tenantID.String()),
			slog.String("error", err.Error()))
		return true
	}
	return ok && m.now().Sub(last) < window
}
