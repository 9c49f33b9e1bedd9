// Package usage computes per-tenant consumption snapshots: each metered
// resource paired with its plan limit and percentage used.
//
// Live resources (clients, coaches, sessions) are counted against the
// authoritative entity stores through caller-registered counter functions.
// Accumulated resources (SMS, email) are summed from daily usage metrics
// over the current calendar month. Storage is a point-in-time gauge read
// from the latest metric sample, never summed.
//
//	calc, err := usage.NewCalculator(catalog, directory, counters, metrics)
//	snap, err := calc.Snapshot(ctx, tenantID)
//	fmt.Println(snap.Clients.Percentage)
//
// Snapshots degrade gracefully: a tenant referencing a missing plan is
// served plan.DefaultLimits (logged) rather than an error. An unknown
// tenant is an error (tenant.ErrTenantNotFound).
package usage
