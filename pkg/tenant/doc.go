// Package tenant defines the tenant directory consumed by the entitlement
// engine: lookup by ID, status listing, and the two write paths the engine
// is allowed to use (block state and last-activity stamps).
//
// Tenant lifecycle (creation, suspension, deletion) is owned elsewhere; the
// engine only reads tenants and conditionally flips their block fields.
//
// NewMemoryDirectory backs tests and embedded deployments. NewCachedDirectory
// wraps any Directory with a TTL cache for hot read paths.
package tenant
