package usage

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed snapshot cache, shared across processes so
// dashboard reads do not recompute snapshots on every node.
type RedisCache struct {
	client redis.UniversalClient
	log    *slog.Logger
}

// NewRedisCache wraps a connected redis client. A nil logger falls back to
// slog.Default.
func NewRedisCache(client redis.UniversalClient, log *slog.Logger) *RedisCache {
	if log == nil {
		log = slog.Default()
	}
	return &RedisCache{client: client, log: log}
}

func snapshotKey(tenantID uuid.UUID) string {
	return "usage:snapshot:" + tenantID.String()
}

func (c *RedisCache) Get(ctx context.Context, tenantID uuid.UUID) (*Snapshot, bool) {
	data, err := c.client.Get(ctx, snapshotKey(tenantID)).Bytes()
	if err != nil {
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt cache entries must not fail the read path; drop and recompute.
		c.log.WarnContext(ctx, "dropping malformed cached snapshot",
			slog.String("tenant_id", tenantID.String()),
			slog.String("error", err.Error()))
		c.Delete(ctx, tenantID)
		return nil, false
	}
	return &snap, true
}

func (c *RedisCache) Set(ctx context.Context, tenantID uuid.UUID, snap *Snapshot, ttl time.Duration) {
	if snap == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, snapshotKey(tenantID), data, ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "failed to cache snapshot",
			slog.String("tenant_id", tenantID.String()),
			slog.String("error", err.Error()))
	}
}

func (c *RedisCache) Delete(ctx context.Context, tenantID uuid.UUID) {
	_ = c.client.Del(ctx, snapshotKey(tenantID)).Err()
}
