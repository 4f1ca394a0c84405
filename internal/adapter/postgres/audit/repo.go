// Package audit implements audit trail persistence using PostgreSQL.
package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres"
	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// Repo provides audit entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const entryColumns = `
	id, batch_id, row_id, tenant_id, employee_key, level, action, field_key,
	old_value, new_value, description, is_automatic, trigger_batch_id,
	actor_id, created_at`

// Append inserts one audit entry.
func (r *Repo) Append(ctx context.Context, e *domain.AuditEntry) error {
	return r.AppendAll(ctx, []*domain.AuditEntry{e})
}

// AppendAll inserts audit entries in order. Callers batching a state cascade
// rely on insertion order matching slice order for stable changelog output.
func (r *Repo) AppendAll(ctx context.Context, entries []*domain.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	for _, e := range entries {
		_, err := q.Exec(ctx,
			`INSERT INTO audit_logs (`+entryColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			e.ID, e.BatchID, e.RowID, e.TenantID, e.EmployeeKey,
			string(e.Level), string(e.Action), e.FieldKey,
			e.OldValue, e.NewValue, e.Description, e.IsAutomatic, e.TriggerBatchID,
			e.ActorID, e.CreatedAt,
		)
		if err != nil {
			return postgres.MapError(err, "audit_entry", e.ID)
		}
	}
	return nil
}

// ListByBatch returns the batch's audit entries, newest first. A non-nil
// level narrows the listing to batch-level or record-level entries.
func (r *Repo) ListByBatch(ctx context.Context, batchID uuid.UUID, level *domain.AuditLevel) ([]*domain.AuditEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	stmt := `SELECT` + entryColumns + ` FROM audit_logs WHERE batch_id = $1`
	args := []any{batchID}
	if level != nil {
		stmt += ` AND level = $2`
		args = append(args, string(*level))
	}
	stmt += ` ORDER BY created_at DESC, id DESC`

	rows, err := q.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var out []*domain.AuditEntry
	for rows.Next() {
		var (
			e             domain.AuditEntry
			level, action string
		)
		err := rows.Scan(
			&e.ID, &e.BatchID, &e.RowID, &e.TenantID, &e.EmployeeKey,
			&level, &action, &e.FieldKey,
			&e.OldValue, &e.NewValue, &e.Description, &e.IsAutomatic, &e.TriggerBatchID,
			&e.ActorID, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Level = domain.AuditLevel(level)
		e.Action = domain.AuditAction(action)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Counts returns how many batch-level and record-level entries the batch has.
func (r *Repo) Counts(ctx context.Context, batchID uuid.UUID) (domain.AuditCounts, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var c domain.AuditCounts
	err := q.QueryRow(ctx,
		`SELECT count(*) FILTER (WHERE level = 'batch'),
		        count(*) FILTER (WHERE level = 'record')
		 FROM audit_logs WHERE batch_id = $1`, batchID).
		Scan(&c.Batch, &c.Record)
	if err != nil {
		return domain.AuditCounts{}, fmt.Errorf("audit counts: %w", err)
	}
	return c, nil
}
