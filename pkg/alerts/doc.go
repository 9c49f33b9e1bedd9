// Package alerts maintains the operator-facing alert log and the scheduled
// sweeps that populate it: usage thresholds, tenant inactivity,
// subscription expiration, and retention cleanup.
//
// Alerts live behind the Store interface. NewMemoryStore keeps a bounded
// in-process log (history is lost on restart); NewPGStore persists alerts
// to Postgres for durability. The Monitor is store-agnostic.
//
// Sweeps deduplicate by (type, tenant, resource) within configurable
// windows, so a condition that persists across runs raises one alert, not
// one per run. Each sweep is non-reentrant: a run that overlaps the next
// scheduled tick makes the tick a no-op.
package alerts
