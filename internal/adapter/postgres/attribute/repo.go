// Package attribute implements the Attribute Registry persistence using
// PostgreSQL. Definitions live in attribute_defs; tenant scope is a join
// table where zero rows means a global definition.
package attribute

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres"
	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// Repo provides attribute definition persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new attribute repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const defColumns = `
	d.id, d.display_label, d.technical_key, d.data_type,
	d.required_on_import, d.materialized, d.created_at,
	COALESCE(array_agg(t.tenant_id) FILTER (WHERE t.tenant_id IS NOT NULL), '{}') AS tenant_ids`

const defFromGroup = `
FROM attribute_defs d
LEFT JOIN attribute_def_tenants t ON t.def_id = d.id
GROUP BY d.id`

// Create inserts a definition together with its tenant scope rows.
func (r *Repo) Create(ctx context.Context, def *domain.AttributeDefinition) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`INSERT INTO attribute_defs
		   (id, display_label, technical_key, data_type, required_on_import, materialized, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		def.ID, def.DisplayLabel, def.TechnicalKey, string(def.DataType),
		def.RequiredOnImport, def.Materialized, def.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "attribute_def", def.ID)
	}

	for _, tenantID := range def.TenantIDs {
		if _, err := q.Exec(ctx,
			`INSERT INTO attribute_def_tenants (def_id, tenant_id) VALUES ($1, $2)`,
			def.ID, tenantID,
		); err != nil {
			return postgres.MapError(err, "attribute_def_tenant", def.ID)
		}
	}

	return nil
}

// GetByID returns one definition with its scope.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AttributeDefinition, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT`+defColumns+defFromGroup+` HAVING d.id = $1`, id)

	def, err := scanDef(row)
	if err != nil {
		return nil, postgres.MapError(err, "attribute_def", id)
	}
	return def, nil
}

// GetByKey returns the definition owning a technical key, or ErrNotFound.
func (r *Repo) GetByKey(ctx context.Context, key string) (*domain.AttributeDefinition, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT`+defColumns+defFromGroup+` HAVING d.technical_key = $1`, key)

	def, err := scanDef(row)
	if err != nil {
		return nil, postgres.MapError(err, "attribute_def", key)
	}
	return def, nil
}

// UpdateLabel rewrites the display label. The technical key never changes.
func (r *Repo) UpdateLabel(ctx context.Context, id uuid.UUID, label string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE attribute_defs SET display_label = $2 WHERE id = $1`, id, label)
	if err != nil {
		return postgres.MapError(err, "attribute_def", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attribute_def %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetMaterialized flips the materialization flag.
func (r *Repo) SetMaterialized(ctx context.Context, id uuid.UUID, materialized bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE attribute_defs SET materialized = $2 WHERE id = $1`, id, materialized)
	if err != nil {
		return postgres.MapError(err, "attribute_def", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attribute_def %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the definition; scope rows cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM attribute_defs WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "attribute_def", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attribute_def %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// EffectiveFor returns global definitions unioned with those scoped to the
// tenant, oldest first.
func (r *Repo) EffectiveFor(ctx context.Context, tenantID uuid.UUID) ([]*domain.AttributeDefinition, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT`+defColumns+defFromGroup+`
		 HAVING count(t.tenant_id) = 0 OR $1 = ANY (array_agg(t.tenant_id))
		 ORDER BY d.created_at, d.id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("effective attribute_defs: %w", err)
	}
	defer rows.Close()

	return scanDefs(rows)
}

// List returns every definition, oldest first.
func (r *Repo) List(ctx context.Context) ([]*domain.AttributeDefinition, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT`+defColumns+defFromGroup+` ORDER BY d.created_at, d.id`)
	if err != nil {
		return nil, fmt.Errorf("list attribute_defs: %w", err)
	}
	defer rows.Close()

	return scanDefs(rows)
}

func scanDefs(rows pgx.Rows) ([]*domain.AttributeDefinition, error) {
	var defs []*domain.AttributeDefinition
	for rows.Next() {
		def, err := scanDef(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attribute_def: %w", err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

func scanDef(row pgx.Row) (*domain.AttributeDefinition, error) {
	var (
		def      domain.AttributeDefinition
		dataType string
	)
	err := row.Scan(
		&def.ID, &def.DisplayLabel, &def.TechnicalKey, &dataType,
		&def.RequiredOnImport, &def.Materialized, &def.CreatedAt,
		&def.TenantIDs,
	)
	if err != nil {
		return nil, err
	}
	def.DataType = domain.AttributeType(dataType)
	return &def, nil
}
