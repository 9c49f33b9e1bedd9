package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitstack/entitlements/pkg/alerts"
	"github.com/fitstack/entitlements/pkg/plan"
	"github.com/fitstack/entitlements/pkg/tenant"
	"github.com/fitstack/entitlements/pkg/usage"
)

// stubUsage returns a fixed approaching-limit result.
type stubUsage struct {
	result []usage.TenantUsage
}

func (s *stubUsage) ApproachingLimit(ctx context.Context, cut int) ([]usage.TenantUsage, error) {
	return s.result, nil
}

// monitorFixture drives a monitor with a movable clock.
type monitorFixture struct {
	monitor *alerts.Monitor
	store   *alerts.MemoryStore
	tenants *tenant.MemoryDirectory
	usage   *stubUsage
	now     time.Time
}

func newMonitorFixture(t *testing.T) *monitorFixture {
	t.Helper()

	fx := &monitorFixture{
		store: alerts.NewMemoryStore(),
		usage: &stubUsage{},
		now:   time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC),
	}
	var err error
	fx.tenants, err = tenant.NewMemoryDirectory()
	require.NoError(t, err)

	fx.monitor = alerts.NewMonitor(fx.store, fx.usage, fx.tenants, alerts.Config{},
		alerts.WithClock(func() time.Time { return fx.now }))
	return fx
}

func (fx *monitorFixture) advance(d time.Duration) { fx.now = fx.now.Add(d) }

func usageAt(t tenant.Tenant, clientPct int) usage.TenantUsage {
	limit := int64(100)
	return usage.TenantUsage{
		Tenant: t,
		Snapshot: &usage.Snapshot{
			TenantID: t.ID,
			PlanKey:  t.PlanKey,
			Clients:  usage.NewGauge(int64(clientPct)*limit/100, plan.Bounded(limit)),
		},
	}
}

func TestMonitorCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and query", func(t *testing.T) {
		t.Parallel()
		fx := newMonitorFixture(t)

		a, err := fx.monitor.Create(ctx, "manual", alerts.SeverityInfo, alerts.CategorySystem,
			"maintenance", "planned downtime", nil, "", nil)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, a.ID)
		assert.Equal(t, fx.now, a.CreatedAt)

		list, err := fx.monitor.Query(ctx, alerts.Filter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "maintenance", list[0].Title)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		fx := newMonitorFixture(t)

		_, err := fx.monitor.Create(ctx, "", alerts.SeverityInfo, alerts.CategorySystem, "t", "m", nil, "", nil)
		assert.ErrorIs(t, err, alerts.ErrInvalidAlert)

		_, err = fx.monitor.Create(ctx, "manual", "loud", alerts.CategorySystem, "t", "m", nil, "", nil)
		assert.ErrorIs(t, err, alerts.ErrInvalidAlert)
	})

	t.Run("acknowledge updates counts", func(t *testing.T) {
		t.Parallel()
		fx := newMonitorFixture(t)

		a, err := fx.monitor.Create(ctx, "manual", alerts.SeverityCritical, alerts.CategorySystem, "t", "m", nil, "", nil)
		require.NoError(t, err)

		c, err := fx.monitor.Counts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Critical)

		require.NoError(t, fx.monitor.Acknowledge(ctx, a.ID, "ops"))

		c, err = fx.monitor.Counts(ctx)
		require.NoError(t, err)
		assert.Zero(t, c.Total)
	})
}

func TestSweepUsageThresholds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	studio := tenant.Tenant{ID: uuid.New(), Name: "Iron Temple", PlanKey: "studio", Status: tenant.StatusActive}

	t.Run("severity bands", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			pct      int
			want     int
			severity alerts.Severity
		}{
			{"84 percent raises nothing", 84, 0, ""},
			{"89 percent raises nothing", 89, 0, ""},
			{"90 percent raises warning", 90, 1, alerts.SeverityWarning},
			{"99 percent raises warning", 99, 1, alerts.SeverityWarning},
			{"100 percent raises critical", 100, 1, alerts.SeverityCritical},
			{"120 percent raises critical", 120, 1, alerts.SeverityCritical},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				fx := newMonitorFixture(t)
				fx.usage.result = []usage.TenantUsage{usageAt(studio, tt.pct)}

				require.NoError(t, fx.monitor.SweepUsageThresholds(ctx))

				list, err := fx.monitor.Query(ctx, alerts.Filter{})
				require.NoError(t, err)
				require.Len(t, list, tt.want)
				if tt.want > 0 {
					assert.Equal(t, tt.severity, list[0].Severity)
					assert.Equal(t, alerts.TypeUsageLimit, list[0].Type)
					assert.Equal(t, alerts.CategoryUsage, list[0].Category)
					assert.Equal(t, "clients", list[0].Data["resource"])
				}
			})
		}
	})

	t.Run("dedup window suppresses repeats", func(t *testing.T) {
		t.Parallel()
		fx := newMonitorFixture(t)
		fx.usage.result = []usage.TenantUsage{usageAt(studio, 95)}

		require.NoError(t, fx.monitor.SweepUsageThresholds(ctx))
		fx.advance(time.Hour)
		require.NoError(t, fx.monitor.SweepUsageThresholds(ctx))

		list, err := fx.monitor.Query(ctx, alerts.Filter{})
		require.NoError(t, err)
		assert.Len(t, list, 1, "repeat within 24h must be suppressed")

		fx.advance(24 * time.Hour)
		require.NoError(t, fx.monitor.SweepUsageThresholds(ctx))

		list, err = fx.monitor.Query(ctx, alerts.Filter{})
		require.NoError(t, err)
		assert.Len(t, list, 2, "window elapsed, alert fires again")
	})

	t.Run("distinct resources alert independently", func(t *testing.T) {
		t.Parallel()
		fx := newMonitorFixture(t)

		tu := usageAt(studio, 95)
		tu.Snapshot.SMS = usage.NewGauge(98, plan.Bounded(100))
		fx.usage.result = []usage.TenantUsage{tu}

		require.NoError(t, fx.monitor.SweepUsageThresholds(ctx))

		list, err := fx.monitor.Query(ctx, alerts.Filter{})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("unlimited resources never alert", func(t *testing.T) {
		t.Parallel()
		fx := newMonitorFixture(t)

		tu := usage.TenantUsage{
			Tenant: studio,
			Snapshot: &usage.Snapshot{
				TenantID: studio.ID,
				Clients:  usage.NewGauge(1_000_000, plan.Unlimited()),
			},
		}
		fx.usage.result = []usage.TenantUsage{tu}

		require.NoError(t, fx.monitor.SweepUsageThresholds(ctx))

		list, err := fx.monitor.Query(ctx, alerts.Filter{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestSweepInactiveTenants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("flags tenants idle past the window", func(t *testing.T) {
		t.Parallel()
		fx := newMonitorFixture(t)

		idle := tenant.Tenant{
			ID: uuid.New(), Name: "Ghost Gym", PlanKey: "studio",
			Status:         tenant.StatusActive,
			LastActivityAt: fx.now.Add(-15 * 24 * time.Hour),
		}
		busy := tenant.Tenant{
			ID: uuid.New(), Name: "Busy Gym", PlanKey: "studio",
			Status:         tenant.StatusActive,
			LastActivityAt: fx.now.Add(-time.Hour),
		}
		never := tenant.Tenant{
			ID: uuid.New(), Name: "Fresh Signup", PlanKey: "studio",
			Status: tenant.StatusTrial,
		}
		fx.tenants.Put(idle)
		fx.tenants.Put(busy)
		fx.tenants.Put(never)

		require.NoError(t, fx.monitor.SweepInactiveTenants(ctx))

		list, err := fx.monitor.Query(ctx, alerts.Filter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, alerts.TypeTenantInactive, list[0].Type)
		require.NotNil(t, list[0].TenantID)
		assert.Equal(t, idle.ID, *list[0].TenantID)
		assert.Equal(t, 15, list[0].Data["inactive_days"])
	})

	t.Run("dedup suppresses within seven days", func(t *testing.T) {
		t.Parallel()
		fx := newMonitorFixture(t)

		idle := tenant.Tenant{
			ID: uuid.New(), Name: "Ghost Gym", PlanKey: "studio",
			Status:         tenant.StatusActive,
			LastActivityAt: fx.now.Add(-20 * 24 * time.Hour),
		}
		fx.tenants.Put(idle)

		require.NoError(t, fx.monitor.SweepInactiveTenants(ctx))
		fx.advance(24 * time.Hour)
		require.NoError(t, fx.monitor.SweepInactiveTenants(ctx))

		list, err := fx.monitor.Query(ctx, alerts.Filter{})
		require.NoError(t, err)
		assert.Len(t, list, 1)

		fx.advance(7 * 24 * time.Hour)
		require.NoError(t, fx.monitor.SweepInactiveTenants(ctx))

		list, err = fx.monitor.Query(ctx, alerts.Filter{})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

func TestSweepSubscriptionExpirations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("expired is critical, expiring soon is warning", func(t *testing.T) {
		t.Parallel()
		fx := newMonitorFixture(t)

		expired := tenant.Tenant{
			ID: uuid.New(), Name: "Lapsed", PlanKey: "studio",
			Status:             tenant.StatusActive,
			SubscriptionEndsAt: fx.now.Add(-24 * time.Hour),
		}
		expiring := tenant.Tenant{
			ID: uuid.New(), Name: "Ending Soon", PlanKey: "studio",
			Status:             tenant.StatusActive,
			SubscriptionEndsAt: fx.now.Add(3 * 24 * time.Hour),
		}
		healthy := tenant.Tenant{
			ID: uuid.New(), Name: "Healthy", PlanKey: "studio",
			Status:             tenant.StatusActive,
			SubscriptionEndsAt: fx.now.Add(60 * 24 * time.Hour),
		}
		none := tenant.Tenant{
			ID: uuid.New(), Name: "No Subscription", PlanKey: "studio",
			Status: tenant.StatusTrial,
		}
		for _, tn := range []tenant.Tenant{expired, expiring, healthy, none} {
			fx.tenants.Put(tn)
		}

		require.NoError(t, fx.monitor.SweepSubscriptionExpirations(ctx))

		list, err := fx.monitor.Query(ctx, alerts.Filter{})
		require.NoError(t, err)
		require.Len(t, list, 2)

		// Critical sorts first.
		assert.Equal(t, alerts.TypeSubscriptionExpired, list[0].Type)
		assert.Equal(t, alerts.SeverityCritical, list[0].Severity)
		assert.Equal(t, expired.ID, *list[0].TenantID)
		assert.Equal(t, alerts.TypeSubscriptionExpires, list[1].Type)
		assert.Equal(t, alerts.SeverityWarning, list[1].Severity)
		assert.Equal(t, alerts.CategoryBilling, list[1].Category)
	})

	t.Run("expiring then expired alerts separately", func(t *testing.T) {
		t.Parallel()
		fx := newMonitorFixture(t)

		tn := tenant.Tenant{
			ID: uuid.New(), Name: "Edge", PlanKey: "studio",
			Status:             tenant.StatusActive,
			SubscriptionEndsAt: fx.now.Add(2 * 24 * time.Hour),
		}
		fx.tenants.Put(tn)

		require.NoError(t, fx.monitor.SweepSubscriptionExpirations(ctx))
		// Three days later the subscription has lapsed; the expired alert is
		// a different type and is not suppressed by the expiring one.
		fx.advance(3 * 24 * time.Hour)
		require.NoError(t, fx.monitor.SweepSubscriptionExpirations(ctx))

		list, err := fx.monitor.Query(ctx, alerts.Filter{})
		require.NoError(t, err)
		require.Len(t, list, 2)
	})
}

func TestSweepRetention(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fx := newMonitorFixture(t)

	old, err := fx.monitor.Create(ctx, "manual", alerts.SeverityInfo, alerts.CategorySystem, "old acked", "m", nil, "", nil)
	require.NoError(t, err)
	_, err = fx.monitor.Create(ctx, "manual", alerts.SeverityInfo, alerts.CategorySystem, "old unacked", "m", nil, "", nil)
	require.NoError(t, err)
	require.NoError(t, fx.monitor.Acknowledge(ctx, old.ID, "ops"))

	// 25 days later: a freshly acknowledged alert that must survive.
	fx.advance(25 * 24 * time.Hour)
	fresh, err := fx.monitor.Create(ctx, "manual", alerts.SeverityInfo, alerts.CategorySystem, "fresh acked", "m", nil, "", nil)
	require.NoError(t, err)
	require.NoError(t, fx.monitor.Acknowledge(ctx, fresh.ID, "ops"))

	// Day 31: only the old acknowledged alert is past retention.
	fx.advance(6 * 24 * time.Hour)
	removed, err := fx.monitor.SweepRetention(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	list, err := fx.monitor.Query(ctx, alerts.Filter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	titles := []string{list[0].Title, list[1].Title}
	assert.Contains(t, titles, "old unacked")
	assert.Contains(t, titles, "fresh acked")
}
