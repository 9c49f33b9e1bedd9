package plan

import "slices"

// Resource identifies a metered tenant resource type.
type Resource string

const (
	ResourceClients  Resource = "clients"
	ResourceCoaches  Resource = "coaches"
	ResourceSessions Resource = "sessions" // per calendar month
	ResourceSMS      Resource = "sms"      // per calendar month
	ResourceEmail    Resource = "email"    // per calendar month
	ResourceStorage  Resource = "storage"  // megabytes, point-in-time gauge
)

// Resources returns all metered resource types in stable order.
func Resources() []Resource {
	return []Resource{
		ResourceClients,
		ResourceCoaches,
		ResourceSessions,
		ResourceSMS,
		ResourceEmail,
		ResourceStorage,
	}
}

// Limits is the fixed set of resource limits attached to a plan.
type Limits struct {
	Clients   Limit `json:"clients" yaml:"clients"`
	Coaches   Limit `json:"coaches" yaml:"coaches"`
	Sessions  Limit `json:"sessions_per_month" yaml:"sessions_per_month"`
	SMS       Limit `json:"sms_per_month" yaml:"sms_per_month"`
	Email     Limit `json:"emails_per_month" yaml:"emails_per_month"`
	StorageMB Limit `json:"storage_mb" yaml:"storage_mb"`
}

// Get returns the limit for the given resource. Unknown resources are
// treated as forbidden (Bounded(0)).
func (l Limits) Get(res Resource) Limit {
	switch res {
	case ResourceClients:
		return l.Clients
	case ResourceCoaches:
		return l.Coaches
	case ResourceSessions:
		return l.Sessions
	case ResourceSMS:
		return l.SMS
	case ResourceEmail:
		return l.Email
	case ResourceStorage:
		return l.StorageMB
	}
	return Bounded(0)
}

// DefaultLimits is used when a tenant references a plan that no longer
// exists in the catalog. Snapshot computation degrades to these values
// instead of failing, so a misconfigured tenant still gets served.
var DefaultLimits = Limits{
	Clients:   Bounded(10),
	Coaches:   Bounded(1),
	Sessions:  Bounded(50),
	SMS:       Bounded(0),
	Email:     Bounded(100),
	StorageMB: Bounded(100),
}

// Plan is a named bundle of limits and included feature keys. Tenants
// reference plans by key, so a plan record can be edited without rewriting
// tenant rows.
type Plan struct {
	Key        string   `json:"key" yaml:"key"`
	Name       string   `json:"name" yaml:"name"`
	Limits     Limits   `json:"limits" yaml:"limits"`
	Features   []string `json:"features" yaml:"features"`
	Active     bool     `json:"active" yaml:"active"`
	PriceCents int64    `json:"price_cents" yaml:"price_cents"`
}

// HasFeature reports whether the plan includes the given feature key.
func (p Plan) HasFeature(key string) bool {
	return slices.Contains(p.Features, key)
}

// clone returns a deep copy so catalog internals never leak shared slices.
func (p Plan) clone() Plan {
	cp := p
	cp.Features = slices.Clone(p.Features)
	return cp
}
