// Package projection implements view-definition persistence using PostgreSQL.
package projection

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres"
	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// Repo provides projection persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new projection repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Replace swaps the batch's projection for a fresh one. The previous
// projection, if any, is deleted first so a batch never carries two.
func (r *Repo) Replace(ctx context.Context, p *domain.Projection) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx,
		`DELETE FROM batch_projections WHERE batch_id = $1`, p.BatchID); err != nil {
		return postgres.MapError(err, "projection", p.BatchID)
	}

	_, err := q.Exec(ctx,
		`INSERT INTO batch_projections (id, batch_id, generated_at) VALUES ($1, $2, $3)`,
		p.ID, p.BatchID, p.GeneratedAt)
	if err != nil {
		return postgres.MapError(err, "projection", p.ID)
	}

	for _, col := range p.Columns {
		_, err := q.Exec(ctx,
			`INSERT INTO projection_columns
			   (projection_id, position, field_key, label, data_type, null_safe_numeric)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, col.Position, col.FieldKey, col.Label, string(col.DataType), col.NullSafeNumeric)
		if err != nil {
			return postgres.MapError(err, "projection_column", col.FieldKey)
		}
	}
	return nil
}

// DeleteColumnsByKey removes every projection column bound to the given
// field key, across all batches. Used when an attribute definition is
// retired so no layout keeps referencing a dropped storage column.
func (r *Repo) DeleteColumnsByKey(ctx context.Context, fieldKey string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`DELETE FROM projection_columns WHERE field_key = $1`, fieldKey)
	if err != nil {
		return postgres.MapError(err, "projection_column", fieldKey)
	}
	return nil
}

// GetByBatch returns the batch's current projection.
func (r *Repo) GetByBatch(ctx context.Context, batchID uuid.UUID) (*domain.Projection, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var p domain.Projection
	err := q.QueryRow(ctx,
		`SELECT id, batch_id, generated_at FROM batch_projections WHERE batch_id = $1`,
		batchID).Scan(&p.ID, &p.BatchID, &p.GeneratedAt)
	if err != nil {
		return nil, postgres.MapError(err, "projection", batchID)
	}

	rows, err := q.Query(ctx,
		`SELECT position, field_key, label, data_type, null_safe_numeric
		 FROM projection_columns
		 WHERE projection_id = $1
		 ORDER BY position`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("projection columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			col domain.ProjectionColumn
			dt  string
		)
		if err := rows.Scan(&col.Position, &col.FieldKey, &col.Label, &dt, &col.NullSafeNumeric); err != nil {
			return nil, fmt.Errorf("scan projection column: %w", err)
		}
		col.DataType = domain.AttributeType(dt)
		p.Columns = append(p.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}
