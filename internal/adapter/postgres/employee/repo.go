// Package employee implements employee directory lookups using PostgreSQL.
package employee

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nkhrm/salary-policy-backend/internal/adapter/postgres"
	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// Repo provides employee directory lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new employee repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByIdentity returns the tenant's employee with the given identity key.
func (r *Repo) GetByIdentity(ctx context.Context, tenantID uuid.UUID, identityKey string) (*domain.Employee, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var e domain.Employee
	err := q.QueryRow(ctx,
		`SELECT id, tenant_id, identity_key, full_name
		 FROM employees
		 WHERE tenant_id = $1 AND identity_key = $2`,
		tenantID, identityKey).
		Scan(&e.ID, &e.TenantID, &e.IdentityKey, &e.FullName)
	if err != nil {
		return nil, postgres.MapError(err, "employee", identityKey)
	}
	return &e, nil
}

// FindByIdentities resolves many identity keys at once. Keys with no match
// are absent from the result; callers decide whether that is an error.
func (r *Repo) FindByIdentities(ctx context.Context, tenantID uuid.UUID, identityKeys []string) (map[string]*domain.Employee, error) {
	if len(identityKeys) == 0 {
		return map[string]*domain.Employee{}, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT id, tenant_id, identity_key, full_name
		 FROM employees
		 WHERE tenant_id = $1 AND identity_key = ANY ($2)`,
		tenantID, identityKeys)
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*domain.Employee, len(identityKeys))
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.TenantID, &e.IdentityKey, &e.FullName); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out[e.IdentityKey] = &e
	}
	return out, rows.Err()
}
