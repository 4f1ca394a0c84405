// Package batch implements batch and value-row persistence using PostgreSQL.
// Fixed columns use raw SQL; anything touching the runtime-defined x_*
// columns builds its statement with squirrel, since the column set is only
// known per batch.
package batch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres"
	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// Repo provides batch and value-row persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new batch repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ---------------------------------------------------------------------------
// Batches
// ---------------------------------------------------------------------------

const batchColumns = `
	b.id, b.name, b.tenant_id, b.state, b.effective_date, b.expiration_date,
	b.attribute_keys, b.created_by, b.created_at,
	(SELECT count(*) FROM policy_rows r WHERE r.batch_id = b.id) AS total_rows,
	(SELECT count(*) FROM policy_rows r WHERE r.batch_id = b.id AND r.state = 'used') AS used_rows`

// Create inserts a batch.
func (r *Repo) Create(ctx context.Context, b *domain.Batch) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`INSERT INTO policy_batches (id, name, tenant_id, state, attribute_keys, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.Name, b.TenantID, string(b.State), b.AttributeKeys, b.CreatedBy, b.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "policy_batch", b.ID)
	}
	return nil
}

// GetByID returns one batch with derived row stats.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT`+batchColumns+` FROM policy_batches b WHERE b.id = $1`, id)

	b, err := scanBatch(row)
	if err != nil {
		return nil, postgres.MapError(err, "policy_batch", id)
	}
	return b, nil
}

// GetByIDForUpdate loads the batch with a row lock, serializing concurrent
// state transitions on the same batch.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	// Lock first, then read with stats: subqueries are not allowed together
	// with FOR UPDATE of the outer row in one statement.
	if _, err := q.Exec(ctx,
		`SELECT 1 FROM policy_batches WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, postgres.MapError(err, "policy_batch", id)
	}
	return r.GetByID(ctx, id)
}

// ListByTenant returns the tenant's batches, newest first.
func (r *Repo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Batch, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT`+batchColumns+`
		 FROM policy_batches b
		 WHERE b.tenant_id = $1
		 ORDER BY b.created_at DESC, b.id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []*domain.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// FindRecentEmptyDraft looks for a draft batch with the same name and tenant,
// zero rows, created at or after since. Used as the double-submit guard.
func (r *Repo) FindRecentEmptyDraft(ctx context.Context, tenantID uuid.UUID, name string, since time.Time) (*domain.Batch, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT`+batchColumns+`
		 FROM policy_batches b
		 WHERE b.tenant_id = $1 AND b.name = $2 AND b.state = 'draft'
		   AND b.created_at >= $3
		   AND NOT EXISTS (SELECT 1 FROM policy_rows r WHERE r.batch_id = b.id)
		 ORDER BY b.created_at DESC
		 LIMIT 1`, tenantID, name, since)

	b, err := scanBatch(row)
	if err != nil {
		return nil, postgres.MapError(err, "policy_batch", name)
	}
	return b, nil
}

// UpdateName rewrites the batch name.
func (r *Repo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return r.exec(ctx, id, `UPDATE policy_batches SET name = $2 WHERE id = $1`, name)
}

// SetAttributeKeys records the imported attribute set.
func (r *Repo) SetAttributeKeys(ctx context.Context, id uuid.UUID, keys []string) error {
	return r.exec(ctx, id, `UPDATE policy_batches SET attribute_keys = $2 WHERE id = $1`, keys)
}

// MarkInUse transitions the batch to in_use and stamps the effective date.
func (r *Repo) MarkInUse(ctx context.Context, id uuid.UUID, effective time.Time) error {
	return r.exec(ctx, id,
		`UPDATE policy_batches SET state = 'in_use', effective_date = $2 WHERE id = $1`, effective)
}

// MarkUsed transitions the batch to used and stamps the expiration date.
func (r *Repo) MarkUsed(ctx context.Context, id uuid.UUID, expiration time.Time) error {
	return r.exec(ctx, id,
		`UPDATE policy_batches SET state = 'used', expiration_date = $2 WHERE id = $1`, expiration)
}

// Delete removes the batch; rows, audit entries and projections cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM policy_batches WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "policy_batch", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("policy_batch %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// StatsFor returns per-batch derived row counts for the given batches.
func (r *Repo) StatsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.RowStats, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.RowStats{}, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT batch_id,
		        count(*),
		        count(*) FILTER (WHERE state = 'used')
		 FROM policy_rows
		 WHERE batch_id = ANY ($1)
		 GROUP BY batch_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("batch stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[uuid.UUID]domain.RowStats, len(ids))
	for rows.Next() {
		var (
			id uuid.UUID
			s  domain.RowStats
		)
		if err := rows.Scan(&id, &s.Total, &s.Used); err != nil {
			return nil, fmt.Errorf("scan batch stats: %w", err)
		}
		stats[id] = s
	}
	return stats, rows.Err()
}

func (r *Repo) exec(ctx context.Context, id uuid.UUID, stmt string, arg any) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, stmt, id, arg)
	if err != nil {
		return postgres.MapError(err, "policy_batch", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("policy_batch %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanBatch(row pgx.Row) (*domain.Batch, error) {
	var (
		b     domain.Batch
		state string
	)
	err := row.Scan(
		&b.ID, &b.Name, &b.TenantID, &state, &b.EffectiveDate, &b.ExpirationDate,
		&b.AttributeKeys, &b.CreatedBy, &b.CreatedAt,
		&b.Stats.Total, &b.Stats.Used,
	)
	if err != nil {
		return nil, err
	}
	b.State = domain.LifecycleState(state)
	return &b, nil
}

// ---------------------------------------------------------------------------
// Value rows
// ---------------------------------------------------------------------------

var fixedRowColumns = []string{
	"id", "batch_id", "tenant_id", "employee_key", "employee_name",
	"state", "activated_at", "created_at", "updated_at",
}

// InsertRows bulk-inserts value rows including their dynamic attribute
// values. keys fixes the dynamic column order; types drives value
// conversion. Caller must run inside a transaction.
func (r *Repo) InsertRows(ctx context.Context, rows []*domain.ValueRow, keys []string, types map[string]domain.AttributeType) error {
	if len(rows) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	cols := append([]string{}, fixedRowColumns...)
	for _, k := range keys {
		cols = append(cols, quoteIdent(k))
	}

	ins := psql.Insert("policy_rows").Columns(cols...)
	for _, row := range rows {
		vals := []any{
			row.ID, row.BatchID, row.TenantID, row.EmployeeKey, row.EmployeeName,
			string(row.State), row.ActivatedAt, row.CreatedAt, row.UpdatedAt,
		}
		for _, k := range keys {
			v, err := pgValue(types[k], row.Values[k])
			if err != nil {
				return fmt.Errorf("row %s, column %s: %w", row.EmployeeKey, k, err)
			}
			vals = append(vals, v)
		}
		ins = ins.Values(vals...)
	}

	stmt, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert rows: %w", err)
	}
	if _, err := q.Exec(ctx, stmt, args...); err != nil {
		return postgres.MapError(err, "policy_row", "bulk insert")
	}
	return nil
}

// RowsByBatch returns the batch's rows with their dynamic values in canonical
// display form.
func (r *Repo) RowsByBatch(ctx context.Context, batchID uuid.UUID, keys []string, types map[string]domain.AttributeType) ([]*domain.ValueRow, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	stmt, args, err := rowSelect(keys).
		Where(sq.Eq{"batch_id": batchID}).
		OrderBy("employee_key", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select rows: %w", err)
	}

	rows, err := q.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("rows by batch: %w", err)
	}
	defer rows.Close()

	var out []*domain.ValueRow
	for rows.Next() {
		vr, err := scanRow(rows, keys, types)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, vr)
	}
	return out, rows.Err()
}

// GetRow returns one value row with its dynamic values.
func (r *Repo) GetRow(ctx context.Context, rowID uuid.UUID, keys []string, types map[string]domain.AttributeType) (*domain.ValueRow, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	stmt, args, err := rowSelect(keys).Where(sq.Eq{"id": rowID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select row: %w", err)
	}

	vr, err := scanRow(q.QueryRow(ctx, stmt, args...), keys, types)
	if err != nil {
		return nil, postgres.MapError(err, "policy_row", rowID)
	}
	return vr, nil
}

// UpdateRowValues rewrites the given dynamic values on one row.
func (r *Repo) UpdateRowValues(ctx context.Context, rowID uuid.UUID, values map[string]string, types map[string]domain.AttributeType) error {
	if len(values) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	upd := psql.Update("policy_rows").Set("updated_at", time.Now().UTC())
	for k, raw := range values {
		v, err := pgValue(types[k], raw)
		if err != nil {
			return fmt.Errorf("column %s: %w", k, err)
		}
		upd = upd.Set(quoteIdent(k), v)
	}

	stmt, args, err := upd.Where(sq.Eq{"id": rowID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update row: %w", err)
	}
	tag, err := q.Exec(ctx, stmt, args...)
	if err != nil {
		return postgres.MapError(err, "policy_row", rowID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("policy_row %s: %w", rowID, domain.ErrNotFound)
	}
	return nil
}

// LockEmployees serializes concurrent approvals over the same employees.
// Locks are taken in stable sorted key order to avoid deadlock between two
// overlapping approvals, and released at transaction end.
func (r *Repo) LockEmployees(ctx context.Context, tenantID uuid.UUID, employeeKeys []string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sorted := append([]string{}, employeeKeys...)
	sort.Strings(sorted)

	for _, key := range sorted {
		if _, err := q.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
			tenantID.String()+"/"+key,
		); err != nil {
			return fmt.Errorf("lock employee %s: %w", key, err)
		}
	}
	return nil
}

// ActiveRowsElsewhere returns rows in in_use state for the given employees in
// other batches of the tenant, locked FOR UPDATE. Dynamic values are not
// loaded; supersession only needs identities.
func (r *Repo) ActiveRowsElsewhere(ctx context.Context, tenantID uuid.UUID, employeeKeys []string, excludeBatch uuid.UUID) ([]*domain.ValueRow, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT id, batch_id, tenant_id, employee_key, employee_name, state,
		        activated_at, created_at, updated_at
		 FROM policy_rows
		 WHERE tenant_id = $1 AND employee_key = ANY ($2)
		   AND state = 'in_use' AND batch_id <> $3
		 ORDER BY employee_key, id
		 FOR UPDATE`, tenantID, employeeKeys, excludeBatch)
	if err != nil {
		return nil, fmt.Errorf("active rows elsewhere: %w", err)
	}
	defer rows.Close()

	var out []*domain.ValueRow
	for rows.Next() {
		vr, err := scanRow(rows, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("scan active row: %w", err)
		}
		out = append(out, vr)
	}
	return out, rows.Err()
}

// MarkRowsUsed transitions the given rows to used.
func (r *Repo) MarkRowsUsed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx,
		`UPDATE policy_rows SET state = 'used', updated_at = now() WHERE id = ANY ($1)`, ids); err != nil {
		return postgres.MapError(err, "policy_row", "mark used")
	}
	return nil
}

// ActivateRows transitions every row of the batch to in_use. activated_at is
// set exactly once: rows that were active before keep their original stamp.
func (r *Repo) ActivateRows(ctx context.Context, batchID uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx,
		`UPDATE policy_rows
		 SET state = 'in_use', activated_at = COALESCE(activated_at, $2), updated_at = now()
		 WHERE batch_id = $1`, batchID, at); err != nil {
		return postgres.MapError(err, "policy_row", batchID)
	}
	return nil
}

// EndRows transitions the batch's still-active rows to used.
func (r *Repo) EndRows(ctx context.Context, batchID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx,
		`UPDATE policy_rows SET state = 'used', updated_at = now()
		 WHERE batch_id = $1 AND state = 'in_use'`, batchID); err != nil {
		return postgres.MapError(err, "policy_row", batchID)
	}
	return nil
}

// CountRows returns the number of rows owned by the batch.
func (r *Repo) CountRows(ctx context.Context, batchID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	err := q.QueryRow(ctx,
		`SELECT count(*) FROM policy_rows WHERE batch_id = $1`, batchID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// rowSelect builds a select over fixed columns plus the dynamic keys, each
// cast to text so every value scans as a nullable string.
func rowSelect(keys []string) sq.SelectBuilder {
	cols := append([]string{}, fixedRowColumns...)
	for _, k := range keys {
		cols = append(cols, quoteIdent(k)+"::text")
	}
	return psql.Select(cols...).From("policy_rows")
}

func scanRow(row pgx.Row, keys []string, types map[string]domain.AttributeType) (*domain.ValueRow, error) {
	var (
		vr    domain.ValueRow
		state string
	)
	dests := []any{
		&vr.ID, &vr.BatchID, &vr.TenantID, &vr.EmployeeKey, &vr.EmployeeName,
		&state, &vr.ActivatedAt, &vr.CreatedAt, &vr.UpdatedAt,
	}
	raw := make([]*string, len(keys))
	for i := range keys {
		dests = append(dests, &raw[i])
	}

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	vr.State = domain.LifecycleState(state)
	vr.Values = make(map[string]string, len(keys))
	for i, k := range keys {
		if raw[i] == nil {
			vr.Values[k] = ""
			continue
		}
		vr.Values[k] = domain.NormalizeValue(types[k], *raw[i])
	}
	return &vr, nil
}

// quoteIdent wraps a technical key for safe interpolation. Keys are ASCII
// slugs validated upstream; the quotes guard against reserved words.
func quoteIdent(key string) string {
	return `"` + strings.ReplaceAll(key, `"`, ``) + `"`
}
