package alerts

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Severity orders alerts by urgency.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// rank orders severities for sorting: critical first.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Category groups alerts for dashboard filtering.
type Category string

const (
	CategoryUsage    Category = "usage"
	CategorySystem   Category = "system"
	CategoryBilling  Category = "billing"
	CategorySecurity Category = "security"
)

// Alert is one operator-facing event. Alerts are created by sweeps or
// manually, mutated only by acknowledgement, and removed only by the
// retention sweep.
type Alert struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"` // short machine tag, e.g. "usage_limit"
	Severity Severity  `json:"severity"`
	Category Category  `json:"category"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`

	TenantID   *uuid.UUID `json:"tenant_id,omitempty"`
	TenantName string     `json:"tenant_name,omitempty"`

	Data map[string]any `json:"data,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	Acknowledged bool       `json:"acknowledged"`
	AckBy        string     `json:"ack_by,omitempty"`
	AckAt        *time.Time `json:"ack_at,omitempty"`
}

// Clone returns a deep copy so an alert can be handed across goroutines
// without sharing the data bag.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}
	cp := *a
	if a.TenantID != nil {
		id := *a.TenantID
		cp.TenantID = &id
	}
	if a.AckAt != nil {
		t := *a.AckAt
		cp.AckAt = &t
	}
	if a.Data != nil {
		cp.Data = maps.Clone(a.Data)
	}
	return &cp
}

// resourceTag extracts the resource tag sweeps stash in the data bag for
// dedup keying. Empty when absent.
func (a *Alert) resourceTag() string {
	if a.Data == nil {
		return ""
	}
	if s, ok := a.Data["resource"].(string); ok {
		return s
	}
	return ""
}

// Filter narrows queries and bulk acknowledgement. Nil fields match
// everything.
type Filter struct {
	Severity     *Severity
	Category     *Category
	Acknowledged *bool
	TenantID     *uuid.UUID

	// Limit caps the number of results after sorting. Zero means no cap.
	Limit int
}

func (f Filter) matches(a *Alert) bool {
	if f.Severity != nil && a.Severity != *f.Severity {
		return false
	}
	if f.Category != nil && a.Category != *f.Category {
		return false
	}
	if f.Acknowledged != nil && a.Acknowledged != *f.Acknowledged {
		return false
	}
	if f.TenantID != nil {
		if a.TenantID == nil || *a.TenantID != *f.TenantID {
			return false
		}
	}
	return true
}

// Counts breaks down unacknowledged alerts by severity.
type Counts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}
