package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGMetricStore is a Postgres-backed MetricStore over the usage_metrics
// table (see migrations).
type PGMetricStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPGMetricStore wraps a connected pgx pool. A nil logger falls back to
// slog.Default.
func NewPGMetricStore(pool *pgxpool.Pool, log *slog.Logger) *PGMetricStore {
	if log == nil {
		log = slog.Default()
	}
	return &PGMetricStore{pool: pool, log: log}
}

func (s *PGMetricStore) UpsertDaily(ctx context.Context, tenantID uuid.UUID, mt MetricType, delta int64, metadata map[string]int64) error {
	if mt == "" {
		return fmt.Errorf("%w: empty metric type", ErrInvalidMetric)
	}
	day := Day(time.Now())

	if len(metadata) == 0 {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO usage_metrics (tenant_id, metric_type, day, value, metadata)
			VALUES ($1, $2, $3, $4, '{}'::jsonb)
			ON CONFLICT (tenant_id, metric_type, day)
			DO UPDATE SET value = usage_metrics.value + EXCLUDED.value, updated_at = now()`,
			tenantID, string(mt), day, delta)
		return err
	}

	// Metadata merges additively, which needs read-modify-write under a
	// row lock.
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO usage_metrics (tenant_id, metric_type, day, value, metadata)
			VALUES ($1, $2, $3, $4, '{}'::jsonb)
			ON CONFLICT (tenant_id, metric_type, day)
			DO UPDATE SET value = usage_metrics.value + EXCLUDED.value, updated_at = now()`,
			tenantID, string(mt), day, delta)
		if err != nil {
			return err
		}

		var raw []byte
		err = tx.QueryRow(ctx, `
			SELECT metadata FROM usage_metrics
			WHERE tenant_id = $1 AND metric_type = $2 AND day = $3
			FOR UPDATE`,
			tenantID, string(mt), day).Scan(&raw)
		if err != nil {
			return err
		}

		merged := s.decodeMetadata(ctx, tenantID, mt, raw)
		for k, v := range metadata {
			merged[k] += v
		}
		out, err := json.Marshal(merged)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE usage_metrics SET metadata = $4, updated_at = now()
			WHERE tenant_id = $1 AND metric_type = $2 AND day = $3`,
			tenantID, string(mt), day, out)
		return err
	})
}

func (s *PGMetricStore) SumInRange(ctx context.Context, tenantID uuid.UUID, mt MetricType, start, end time.Time) (int64, error) {
	var sum int64
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(value), 0) FROM usage_metrics
		WHERE tenant_id = $1 AND metric_type = $2 AND day >= $3 AND day < $4`,
		tenantID, string(mt), Day(start), end).Scan(&sum)
	return sum, err
}

func (s *PGMetricStore) Latest(ctx context.Context, tenantID uuid.UUID, mt MetricType) (int64, error) {
	var value int64
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM usage_metrics
		WHERE tenant_id = $1 AND metric_type = $2
		ORDER BY day DESC LIMIT 1`,
		tenantID, string(mt)).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return value, err
}

// decodeMetadata tolerates corrupt stored JSON: configuration corruption
// is logged and treated as empty rather than failing the write path.
func (s *PGMetricStore) decodeMetadata(ctx context.Context, tenantID uuid.UUID, mt MetricType, raw []byte) map[string]int64 {
	merged := make(map[string]int64)
	if len(raw) == 0 {
		return merged
	}
	if err := json.Unmarshal(raw, &merged); err != nil {
		s.log.WarnContext(ctx, "malformed metric metadata, resetting",
			slog.String("tenant_id", tenantID.String()),
			slog.String("metric_type", string(mt)),
			slog.String("error", err.Error()))
		return make(map[string]int64)
	}
	return merged
}
