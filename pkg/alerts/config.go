package alerts

import "time"

// Config tunes sweep thresholds, dedup windows, and retention. Defaults
// follow the documented governance policy; override via environment
// variables through the config loader.
type Config struct {
	// ApproachingCut is the percentage at which a tenant appears in the
	// approaching-limit scan. The 80-89 band is surfaced to dashboards but
	// deliberately raises no alert; only WarningPct and above do.
	ApproachingCut int `env:"ALERTS_APPROACHING_CUT" envDefault:"80"`

	// WarningPct is the lowest percentage that raises a warning alert.
	// 100 and above raises critical.
	WarningPct int `env:"ALERTS_WARNING_PCT" envDefault:"90"`

	// UsageDedupWindow suppresses repeat usage alerts for the same
	// (type, tenant, resource).
	UsageDedupWindow time.Duration `env:"ALERTS_USAGE_DEDUP_WINDOW" envDefault:"24h"`

	// InactiveAfter flags tenants whose last activity is older than this.
	InactiveAfter time.Duration `env:"ALERTS_INACTIVE_AFTER" envDefault:"336h"` // 14 days

	// InactiveDedupWindow suppresses repeat inactivity alerts per tenant.
	InactiveDedupWindow time.Duration `env:"ALERTS_INACTIVE_DEDUP_WINDOW" envDefault:"168h"` // 7 days

	// ExpiringWithin raises a warning for subscriptions ending within the
	// window; already-expired subscriptions raise critical.
	ExpiringWithin time.Duration `env:"ALERTS_EXPIRING_WITHIN" envDefault:"168h"` // 7 days

	// ExpirationDedupWindow suppresses repeat expiration alerts per tenant.
	ExpirationDedupWindow time.Duration `env:"ALERTS_EXPIRATION_DEDUP_WINDOW" envDefault:"168h"`

	// Retention is how long acknowledged alerts are kept before the
	// cleanup sweep removes them. Unacknowledged alerts are never removed.
	Retention time.Duration `env:"ALERTS_RETENTION" envDefault:"720h"` // 30 days
}

// DefaultConfig returns the documented default governance policy.
func DefaultConfig() Config {
	return Config{
		ApproachingCut:        80,
		WarningPct:            90,
		UsageDedupWindow:      24 * time.Hour,
		InactiveAfter:         14 * 24 * time.Hour,
		InactiveDedupWindow:   7 * 24 * time.Hour,
		ExpiringWithin:        7 * 24 * time.Hour,
		ExpirationDedupWindow: 7 * 24 * time.Hour,
		Retention:             30 * 24 * time.Hour,
	}
}
