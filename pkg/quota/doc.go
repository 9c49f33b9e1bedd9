// Package quota enforces plan limits against usage snapshots.
//
// Check is the soft path: it reports a Violation when a resource's current
// count meets or exceeds its bounded limit, without side effects. Enforce
// is the hard path: on violation it flips the tenant-wide block flag and
// returns a *LimitExceededError the caller maps to HTTP 402.
//
// Enforcement is a soft quota. The count is read and decided without
// isolation against concurrent writes of the counted resource, so a tenant
// can transiently exceed a limit by a small margin before the block lands.
// The block write itself is idempotent, so concurrent enforcement needs no
// coordination.
package quota
