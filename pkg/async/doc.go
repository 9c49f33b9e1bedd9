// Package async provides a minimal Future primitive for fanning out
// independent per-tenant computations, such as snapshot calculation across
// a sweep's candidate set.
package async
