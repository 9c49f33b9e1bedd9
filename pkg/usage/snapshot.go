package usage

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/fitstack/entitlements/pkg/plan"
)

// Gauge pairs a current consumption count with its plan limit.
type Gauge struct {
	Current int64      `json:"current"`
	Limit   plan.Limit `json:"limit"`

	// Percentage is round(current/limit*100). Always 0 for unlimited or
	// non-positive limits; unlimited resources are exempt from violation
	// checks regardless of Current.
	Percentage int `json:"percentage"`
}

// NewGauge applies the percentage law to a (current, limit) pair.
func NewGauge(current int64, limit plan.Limit) Gauge {
	g := Gauge{Current: current, Limit: limit}
	if limit.IsUnlimited() || limit.Value() <= 0 {
		return g
	}
	g.Percentage = int(math.Round(float64(current) / float64(limit.Value()) * 100))
	return g
}

// Snapshot is a tenant's computed usage-vs-limit state across all metered
// resource types at one point in time.
type Snapshot struct {
	TenantID uuid.UUID `json:"tenant_id"`
	PlanKey  string    `json:"plan_key"`
	TakenAt  time.Time `json:"taken_at"`

	Clients   Gauge `json:"clients"`
	Coaches   Gauge `json:"coaches"`
	Sessions  Gauge `json:"sessions"` // current calendar month
	SMS       Gauge `json:"sms"`      // current calendar month
	Email     Gauge `json:"email"`    // current calendar month
	StorageMB Gauge `json:"storage_mb"`
}

// Gauge returns the gauge for the given resource type.
func (s *Snapshot) Gauge(res plan.Resource) Gauge {
	switch res {
	case plan.ResourceClients:
		return s.Clients
	case plan.ResourceCoaches:
		return s.Coaches
	case plan.ResourceSessions:
		return s.Sessions
	case plan.ResourceSMS:
		return s.SMS
	case plan.ResourceEmail:
		return s.Email
	case plan.ResourceStorage:
		return s.StorageMB
	}
	return Gauge{}
}

// MaxPercentage returns the resource with the highest percentage used.
// Unlimited resources always report 0 and so never win.
func (s *Snapshot) MaxPercentage() (plan.Resource, int) {
	best := plan.ResourceClients
	bestPct := -1
	for _, res := range plan.Resources() {
		if pct := s.Gauge(res).Percentage; pct > bestPct {
			best, bestPct = res, pct
		}
	}
	return best, bestPct
}
