// Package redis provides Redis connection plumbing for the snapshot
// cache: a client constructor with ping verification and a readiness
// probe.
package redis
