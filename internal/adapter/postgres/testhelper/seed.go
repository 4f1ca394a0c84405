package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedEmployee creates an employee in the given tenant. Returns a filled
// domain.Employee.
func SeedEmployee(t *testing.T, pool *pgxpool.Pool, tenantID uuid.UUID) domain.Employee {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	emp := domain.Employee{
		ID:          uuid.New(),
		TenantID:    tenantID,
		IdentityKey: "id-" + suffix,
		FullName:    "Employee " + suffix,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO employees (id, tenant_id, identity_key, full_name)
		 VALUES ($1, $2, $3, $4)`,
		emp.ID, emp.TenantID, emp.IdentityKey, emp.FullName,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEmployee insert: %v", err)
	}
	return emp
}

// SeedAttributeDef creates an attribute definition. tenantIDs empty means a
// global definition. The definition is not materialized; tests needing the
// physical column go through the schema materializer.
func SeedAttributeDef(t *testing.T, pool *pgxpool.Pool, label string, dataType domain.AttributeType, tenantIDs ...uuid.UUID) domain.AttributeDefinition {
	t.Helper()
	ctx := context.Background()

	key, err := domain.TechnicalKey(label)
	if err != nil {
		t.Fatalf("testhelper: SeedAttributeDef technical key for %q: %v", label, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	def := domain.AttributeDefinition{
		ID:           uuid.New(),
		DisplayLabel: label,
		TechnicalKey: key,
		DataType:     dataType,
		TenantIDs:    tenantIDs,
		CreatedAt:    now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO attribute_defs (id, display_label, technical_key, data_type, required_on_import, materialized, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		def.ID, def.DisplayLabel, def.TechnicalKey, string(def.DataType), def.RequiredOnImport, def.Materialized, def.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAttributeDef insert def: %v", err)
	}

	for _, tid := range tenantIDs {
		_, err := pool.Exec(ctx,
			`INSERT INTO attribute_def_tenants (attribute_def_id, tenant_id) VALUES ($1, $2)`,
			def.ID, tid,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedAttributeDef insert scope: %v", err)
		}
	}
	return def
}

// SeedBatch creates a batch in the given state with no rows.
func SeedBatch(t *testing.T, pool *pgxpool.Pool, tenantID uuid.UUID, state domain.LifecycleState) domain.Batch {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	b := domain.Batch{
		ID:        uuid.New(),
		Name:      "Batch " + suffix,
		TenantID:  tenantID,
		State:     state,
		CreatedBy: uuid.New(),
		CreatedAt: now,
	}

	var effective, expiration *time.Time
	switch state {
	case domain.StateInUse:
		eff := now
		effective = &eff
		b.EffectiveDate = effective
	case domain.StateUsed:
		eff, exp := now.Add(-24*time.Hour), now
		effective, expiration = &eff, &exp
		b.EffectiveDate, b.ExpirationDate = effective, expiration
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO policy_batches (id, name, tenant_id, state, effective_date, expiration_date, attribute_keys, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.Name, b.TenantID, string(b.State), effective, expiration, []string{}, b.CreatedBy, b.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBatch insert: %v", err)
	}
	return b
}

// SeedRow creates a value row for the batch and employee in the given state.
// Only the fixed columns are populated.
func SeedRow(t *testing.T, pool *pgxpool.Pool, batch domain.Batch, emp domain.Employee, state domain.LifecycleState) domain.ValueRow {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	row := domain.ValueRow{
		ID:           uuid.New(),
		BatchID:      batch.ID,
		TenantID:     batch.TenantID,
		EmployeeKey:  emp.IdentityKey,
		EmployeeName: emp.FullName,
		State:        state,
		Values:       map[string]string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if state != domain.StateDraft {
		at := now
		row.ActivatedAt = &at
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO policy_rows (id, batch_id, tenant_id, employee_key, employee_name, state, activated_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.ID, row.BatchID, row.TenantID, row.EmployeeKey, row.EmployeeName,
		string(row.State), row.ActivatedAt, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRow insert: %v", err)
	}
	return row
}
