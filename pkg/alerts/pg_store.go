package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is a Postgres-backed Store over the alerts table (see
// migrations). Unlike MemoryStore it is unbounded; the retention sweep is
// the only deletion path.
type PGStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPGStore wraps a connected pgx pool. A nil logger falls back to
// slog.Default.
func NewPGStore(pool *pgxpool.Pool, log *slog.Logger) *PGStore {
	if log == nil {
		log = slog.Default()
	}
	return &PGStore{pool: pool, log: log}
}

const alertColumns = `id, type, severity, category, title, message,
	tenant_id, tenant_name, data, created_at, acknowledged, ack_by, ack_at`

func (s *PGStore) Append(ctx context.Context, a *Alert) error {
	if a == nil || a.ID == uuid.Nil {
		return fmt.Errorf("%w: missing ID", ErrInvalidAlert)
	}

	data, err := json.Marshal(a.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAlert, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO alerts (id, type, severity, category, title, message,
			tenant_id, tenant_name, data, created_at, acknowledged, ack_by, ack_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.Type, string(a.Severity), string(a.Category), a.Title, a.Message,
		a.TenantID, a.TenantName, data, a.CreatedAt, a.Acknowledged, a.AckBy, a.AckAt)
	return err
}

func (s *PGStore) List(ctx context.Context, f Filter) ([]*Alert, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Severity != nil {
		where = append(where, "severity = "+arg(string(*f.Severity)))
	}
	if f.Category != nil {
		where = append(where, "category = "+arg(string(*f.Category)))
	}
	if f.Acknowledged != nil {
		where = append(where, "acknowledged = "+arg(*f.Acknowledged))
	}
	if f.TenantID != nil {
		where = append(where, "tenant_id = "+arg(*f.TenantID))
	}

	query := "SELECT " + alertColumns + " FROM alerts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY
		CASE severity WHEN 'critical' THEN 0 WHEN 'warning' THEN 1 ELSE 2 END,
		created_at DESC`
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*Alert, 0)
	for rows.Next() {
		a, err := s.scanAlert(ctx, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *PGStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE severity = 'critical'),
			COUNT(*) FILTER (WHERE severity = 'warning'),
			COUNT(*) FILTER (WHERE severity = 'info'),
			COUNT(*)
		FROM alerts WHERE NOT acknowledged`).
		Scan(&c.Critical, &c.Warning, &c.Info, &c.Total)
	return c, err
}

func (s *PGStore) Acknowledge(ctx context.Context, id uuid.UUID, actor string, at time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE alerts SET acknowledged = true, ack_by = $2, ack_at = $3
		WHERE id = $1 AND NOT acknowledged`,
		id, actor, at)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM alerts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: %s", ErrAlertNotFound, id)
	}
	return false, nil // already acknowledged
}

func (s *PGStore) AcknowledgeAll(ctx context.Context, f Filter, actor string, at time.Time) (int, error) {
	args := []any{actor, at}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	where := []string{"NOT acknowledged"}
	if f.Severity != nil {
		where = append(where, "severity = "+arg(string(*f.Severity)))
	}
	if f.Category != nil {
		where = append(where, "category = "+arg(string(*f.Category)))
	}
	if f.TenantID != nil {
		where = append(where, "tenant_id = "+arg(*f.TenantID))
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE alerts SET acknowledged = true, ack_by = $1, ack_at = $2 WHERE "+strings.Join(where, " AND "),
		args...)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *PGStore) DeleteAcknowledgedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM alerts WHERE acknowledged AND created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *PGStore) LastCreated(ctx context.Context, alertType string, tenantID uuid.UUID, resource string) (time.Time, bool, error) {
	var t time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT created_at FROM alerts
		WHERE type = $1 AND tenant_id = $2 AND COALESCE(data->>'resource', '') = $3
		ORDER BY created_at DESC LIMIT 1`,
		alertType, tenantID, resource).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func (s *PGStore) scanAlert(ctx context.Context, rows pgx.Rows) (*Alert, error) {
	var (
		a        Alert
		severity string
		category string
		raw      []byte
	)
	if err := rows.Scan(&a.ID, &a.Type, &severity, &category, &a.Title, &a.Message,
		&a.TenantID, &a.TenantName, &raw, &a.CreatedAt, &a.Acknowledged, &a.AckBy, &a.AckAt); err != nil {
		return nil, err
	}
	a.Severity = Severity(severity)
	a.Category = Category(category)

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a.Data); err != nil {
			// Corrupt data bags must not fail dashboard reads.
			s.log.WarnContext(ctx, "malformed alert data, serving without it",
				slog.String("alert_id", a.ID.String()),
				slog.String("error", err.Error()))
			a.Data = nil
		}
	}
	return &a, nil
}
