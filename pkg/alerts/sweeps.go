package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/fitstack/entitlements/pkg/plan"
	"github.com/fitstack/entitlements/pkg/scheduler"
	"github.com/fitstack/entitlements/pkg/tenant"
)

// Alert type tags produced by the sweeps.
const (
	TypeUsageLimit          = "usage_limit"
	TypeTenantInactive      = "tenant_inactive"
	TypeSubscriptionExpired = "subscription_expired"
	TypeSubscriptionExpires = "subscription_expiring"
)

// sweepGuard makes a sweep non-reentrant. An overlapping run is skipped;
// the dedup windows make a skipped tick harmless.
type sweepGuard struct {
	running atomic.Bool
}

func (g *sweepGuard) try() bool { return g.running.CompareAndSwap(false, true) }
func (g *sweepGuard) release()  { g.running.Store(false) }

// RegisterSweeps adds the four sweeps to a scheduler: usage thresholds
// hourly, the rest daily.
func (m *Monitor) RegisterSweeps(s *scheduler.Scheduler) error {
	if err := s.Add("alerts.usage_thresholds", scheduler.HourlyAt(5), m.SweepUsageThresholds); err != nil {
		return err
	}
	if err := s.Add("alerts.inactive_tenants", scheduler.DailyAt(6, 0), m.SweepInactiveTenants); err != nil {
		return err
	}
	if err := s.Add("alerts.subscription_expirations", scheduler.DailyAt(6, 30), m.SweepSubscriptionExpirations); err != nil {
		return err
	}
	return s.Add("alerts.retention", scheduler.DailyAt(3, 0), func(ctx context.Context) error {
		_, err := m.SweepRetention(ctx)
		return err
	})
}

// SweepUsageThresholds scans tenants at or above the approaching-limit cut
// and raises usage alerts: critical at 100%+, warning at WarningPct..99.
// Percentages below WarningPct raise nothing here; the 80-89 band only
// feeds the approaching-limit dashboard query.
func (m *Monitor) SweepUsageThresholds(ctx context.Context) error {
	if !m.usageSweep.try() {
		m.log.DebugContext(ctx, "usage threshold sweep already running, skipping")
		return nil
	}
	defer m.usageSweep.release()

	candidates, err := m.usage.ApproachingLimit(ctx, m.cfg.ApproachingCut)
	if err != nil {
		return fmt.Errorf("usage threshold sweep: %w", err)
	}

	for _, tu := range candidates {
		for _, res := range plan.Resources() {
			g := tu.Snapshot.Gauge(res)
			if g.Limit.IsUnlimited() || g.Percentage < m.cfg.WarningPct {
				continue
			}

			severity := SeverityWarning
			if g.Percentage >= 100 {
				severity = SeverityCritical
			}

			if m.deduped(ctx, TypeUsageLimit, tu.Tenant.ID, string(res), m.cfg.UsageDedupWindow) {
				continue
			}

			id := tu.Tenant.ID
			_, err := m.Create(ctx, TypeUsageLimit, severity, CategoryUsage,
				fmt.Sprintf("%s usage at %d%%", res, g.Percentage),
				fmt.Sprintf("Tenant %q has used %d of %d %s (%d%%) on plan %q.",
					tu.Tenant.Name, g.Current, g.Limit.Value(), res, g.Percentage, tu.Snapshot.PlanKey),
				&id, tu.Tenant.Name,
				map[string]any{
					"resource":   string(res),
					"current":    g.Current,
					"limit":      g.Limit.Value(),
					"percentage": g.Percentage,
					"plan":       tu.Snapshot.PlanKey,
				})
			if err != nil {
				m.log.ErrorContext(ctx, "failed to create usage alert",
					slog.String("tenant_id", id.String()),
					slog.String("resource", string(res)),
					slog.String("error", err.Error()))
			}
		}
	}
	return nil
}

// SweepInactiveTenants flags tenants whose last activity is older than the
// configured window.
func (m *Monitor) SweepInactiveTenants(ctx context.Context) error {
	if !m.inactiveSweep.try() {
		m.log.DebugContext(ctx, "inactive tenant sweep already running, skipping")
		return nil
	}
	defer m.inactiveSweep.release()

	tenants, err := m.tenants.ListByStatus(ctx, tenant.StatusActive, tenant.StatusTrial)
	if err != nil {
		return fmt.Errorf("inactive tenant sweep: %w", err)
	}

	now := m.now()
	for _, t := range tenants {
		if t.LastActivityAt.IsZero() || now.Sub(t.LastActivityAt) < m.cfg.InactiveAfter {
			continue
		}
		if m.deduped(ctx, TypeTenantInactive, t.ID, "", m.cfg.InactiveDedupWindow) {
			continue
		}

		id := t.ID
		days := int(now.Sub(t.LastActivityAt).Hours() / 24)
		_, err := m.Create(ctx, TypeTenantInactive, SeverityWarning, CategorySystem,
			fmt.Sprintf("Tenant inactive for %d days", days),
			fmt.Sprintf("Tenant %q has had no activity since %s.", t.Name, t.LastActivityAt.Format("2006-01-02")),
			&id, t.Name,
			map[string]any{"last_activity_at": t.LastActivityAt, "inactive_days": days})
		if err != nil {
			m.log.ErrorContext(ctx, "failed to create inactivity alert",
				slog.String("tenant_id", id.String()),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// SweepSubscriptionExpirations raises critical alerts for expired
// subscriptions and warnings for subscriptions ending within the
// configured window.
func (m *Monitor) SweepSubscriptionExpirations(ctx context.Context) error {
	if !m.expirationSweep.try() {
		m.log.DebugContext(ctx, "subscription expiration sweep already running, skipping")
		return nil
	}
	defer m.expirationSweep.release()

	tenants, err := m.tenants.ListByStatus(ctx, tenant.StatusActive, tenant.StatusTrial)
	if err != nil {
		return fmt.Errorf("subscription expiration sweep: %w", err)
	}

	now := m.now()
	for _, t := range tenants {
		if t.SubscriptionEndsAt.IsZero() {
			continue
		}

		var (
			alertType string
			severity  Severity
			title     string
			message   string
		)
		switch {
		case t.SubscriptionEndsAt.Before(now):
			alertType = TypeSubscriptionExpired
			severity = SeverityCritical
			title = "Subscription expired"
			message = fmt.Sprintf("Tenant %q subscription expired on %s.", t.Name, t.SubscriptionEndsAt.Format("2006-01-02"))
		case t.SubscriptionEndsAt.Sub(now) <= m.cfg.ExpiringWithin:
			alertType = TypeSubscriptionExpires
			severity = SeverityWarning
			title = "Subscription expiring soon"
			message = fmt.Sprintf("Tenant %q subscription ends on %s.", t.Name, t.SubscriptionEndsAt.Format("2006-01-02"))
		default:
			continue
		}

		if m.deduped(ctx, alertType, t.ID, "", m.cfg.ExpirationDedupWindow) {
			continue
		}

		id := t.ID
		_, err := m.Create(ctx, alertType, severity, CategoryBilling, title, message,
			&id, t.Name,
			map[string]any{"subscription_ends_at": t.SubscriptionEndsAt})
		if err != nil {
			m.log.ErrorContext(ctx, "failed to create expiration alert",
				slog.String("tenant_id", id.String()),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// SweepRetention removes alerts that are both acknowledged and older than
// the retention window. Unacknowledged alerts are kept regardless of age.
func (m *Monitor) SweepRetention(ctx context.Context) (int, error) {
	if !m.retentionSweep.try() {
		m.log.DebugContext(ctx, "retention sweep already running, skipping")
		return 0, nil
	}
	defer m.retentionSweep.release()

	removed, err := m.store.DeleteAcknowledgedBefore(ctx, m.now().Add(-m.cfg.Retention))
	if err != nil {
		return 0, fmt.Errorf("retention sweep: %w", err)
	}
	if removed > 0 {
		m.log.InfoContext(ctx, "retention sweep removed acknowledged alerts",
			slog.Int("removed", removed))
	}
	return removed, nil
}
