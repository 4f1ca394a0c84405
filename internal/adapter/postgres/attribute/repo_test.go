package attribute

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/adapter/postgres/testhelper"
	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

func newDef(label string, dataType domain.AttributeType, tenantIDs ...uuid.UUID) *domain.AttributeDefinition {
	key, _ := domain.TechnicalKey(label)
	return &domain.AttributeDefinition{
		ID:           uuid.New(),
		DisplayLabel: label,
		TechnicalKey: key,
		DataType:     dataType,
		TenantIDs:    tenantIDs,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRepo_CreateAndGet(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ctx := context.Background()

	tenant := uuid.New()
	def := newDef("Phụ Cấp "+uuid.New().String()[:8], domain.AttributeTypeDecimal, tenant)

	if err := repo.Create(ctx, def); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, def.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TechnicalKey != def.TechnicalKey {
		t.Errorf("technical key: got %q, want %q", got.TechnicalKey, def.TechnicalKey)
	}
	if got.DataType != domain.AttributeTypeDecimal {
		t.Errorf("data type: got %q, want decimal", got.DataType)
	}
	if len(got.TenantIDs) != 1 || got.TenantIDs[0] != tenant {
		t.Errorf("tenant scope: got %v, want [%s]", got.TenantIDs, tenant)
	}

	byKey, err := repo.GetByKey(ctx, def.TechnicalKey)
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if byKey.ID != def.ID {
		t.Errorf("GetByKey id: got %s, want %s", byKey.ID, def.ID)
	}
}

func TestRepo_Create_DuplicateKey(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ctx := context.Background()

	label := "Đơn Giá " + uuid.New().String()[:8]
	if err := repo.Create(ctx, newDef(label, domain.AttributeTypeInteger)); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	err := repo.Create(ctx, newDef(label, domain.AttributeTypeInteger))
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestRepo_EffectiveFor(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()

	global := newDef("Global "+uuid.New().String()[:8], domain.AttributeTypeText)
	scopedA := newDef("Scoped A "+uuid.New().String()[:8], domain.AttributeTypeText, tenantA)
	scopedB := newDef("Scoped B "+uuid.New().String()[:8], domain.AttributeTypeText, tenantB)

	for _, d := range []*domain.AttributeDefinition{global, scopedA, scopedB} {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create %s: %v", d.DisplayLabel, err)
		}
	}

	defs, err := repo.EffectiveFor(ctx, tenantA)
	if err != nil {
		t.Fatalf("EffectiveFor: %v", err)
	}

	seen := map[uuid.UUID]bool{}
	for _, d := range defs {
		seen[d.ID] = true
	}
	if !seen[global.ID] {
		t.Error("global definition missing from tenant A's effective set")
	}
	if !seen[scopedA.ID] {
		t.Error("tenant A scoped definition missing from its effective set")
	}
	if seen[scopedB.ID] {
		t.Error("tenant B scoped definition leaked into tenant A's effective set")
	}
}

func TestRepo_UpdateLabelAndDelete(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ctx := context.Background()

	def := newDef("Rename Me "+uuid.New().String()[:8], domain.AttributeTypeText)
	if err := repo.Create(ctx, def); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.UpdateLabel(ctx, def.ID, "Renamed"); err != nil {
		t.Fatalf("UpdateLabel: %v", err)
	}
	got, err := repo.GetByID(ctx, def.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DisplayLabel != "Renamed" {
		t.Errorf("label: got %q, want Renamed", got.DisplayLabel)
	}
	if got.TechnicalKey != def.TechnicalKey {
		t.Errorf("technical key changed on rename: got %q, want %q", got.TechnicalKey, def.TechnicalKey)
	}

	if err := repo.Delete(ctx, def.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, def.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.Delete(ctx, def.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRepo_SetMaterialized(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := New(pool)
	ctx := context.Background()

	def := newDef("Flag "+uuid.New().String()[:8], domain.AttributeTypeBoolean)
	if err := repo.Create(ctx, def); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.SetMaterialized(ctx, def.ID, true); err != nil {
		t.Fatalf("SetMaterialized: %v", err)
	}
	got, err := repo.GetByID(ctx, def.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Materialized {
		t.Error("expected materialized=true")
	}
}
