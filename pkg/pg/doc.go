// Package pg provides PostgreSQL connection plumbing: a pgxpool connector
// with startup retries, a readiness probe, and a goose migration runner
// for the durable alert and usage-metric tables.
package pg
