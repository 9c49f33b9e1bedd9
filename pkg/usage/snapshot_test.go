package usage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fitstack/entitlements/pkg/plan"
	"github.com/fitstack/entitlements/pkg/usage"
)

func TestNewGauge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current int64
		limit   plan.Limit
		want    int
	}{
		{"zero of bounded", 0, plan.Bounded(100), 0},
		{"half", 50, plan.Bounded(100), 50},
		{"rounds down", 124, plan.Bounded(1000), 12},
		{"rounds up", 125, plan.Bounded(1000), 13},
		{"at limit", 100, plan.Bounded(100), 100},
		{"over limit", 150, plan.Bounded(100), 150},
		{"unlimited is always zero", 1_000_000, plan.Unlimited(), 0},
		{"zero limit is exempt", 42, plan.Bounded(0), 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := usage.NewGauge(tt.current, tt.limit)
			assert.Equal(t, tt.want, g.Percentage)
			assert.Equal(t, tt.current, g.Current)
			assert.Equal(t, tt.limit, g.Limit)
		})
	}
}

func TestSnapshotMaxPercentage(t *testing.T) {
	t.Parallel()

	t.Run("picks the hottest resource", func(t *testing.T) {
		t.Parallel()

		snap := &usage.Snapshot{
			Clients:   usage.NewGauge(40, plan.Bounded(100)),
			Coaches:   usage.NewGauge(1, plan.Bounded(2)),
			Sessions:  usage.NewGauge(190, plan.Bounded(200)),
			SMS:       usage.NewGauge(0, plan.Bounded(100)),
			Email:     usage.NewGauge(10, plan.Bounded(100)),
			StorageMB: usage.NewGauge(100, plan.Bounded(512)),
		}

		res, pct := snap.MaxPercentage()
		assert.Equal(t, plan.ResourceSessions, res)
		assert.Equal(t, 95, pct)
	})

	t.Run("unlimited resources never win", func(t *testing.T) {
		t.Parallel()

		snap := &usage.Snapshot{
			Clients: usage.NewGauge(1_000_000, plan.Unlimited()),
			Coaches: usage.NewGauge(1, plan.Bounded(10)),
		}

		res, pct := snap.MaxPercentage()
		assert.Equal(t, plan.ResourceCoaches, res)
		assert.Equal(t, 10, pct)
	})

	t.Run("gauge lookup by resource", func(t *testing.T) {
		t.Parallel()

		snap := &usage.Snapshot{SMS: usage.NewGauge(7, plan.Bounded(10))}
		assert.Equal(t, int64(7), snap.Gauge(plan.ResourceSMS).Current)
		assert.Zero(t, snap.Gauge("bogus"))
	})
}
