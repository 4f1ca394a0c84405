package projection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// Generate builds the batch's column layout and replaces whatever layout the
// batch had before. The fixed columns lead: employee name, employee key and
// row state, then the batch's attributes in import order. Attribute keys
// whose definition has since disappeared are skipped with a warning rather
// than failing the whole layout. Numeric columns are flagged null safe so
// absent values render blank instead of zero.
func (s *Service) Generate(ctx context.Context, b *domain.Batch) (*domain.Projection, error) {
	defs, err := s.defs.EffectiveFor(ctx, b.TenantID)
	if err != nil {
		return nil, fmt.Errorf("effective definitions: %w", err)
	}
	set := domain.NewAttributeSet(defs)

	p := &domain.Projection{
		ID:          uuid.New(),
		BatchID:     b.ID,
		GeneratedAt: time.Now().UTC(),
		Columns: []domain.ProjectionColumn{
			{Position: 0, FieldKey: domain.ProjectionColEmployeeName, Label: "Employee", DataType: domain.AttributeTypeText},
			{Position: 1, FieldKey: domain.ProjectionColEmployeeKey, Label: "Identity", DataType: domain.AttributeTypeText},
			{Position: 2, FieldKey: domain.ProjectionColState, Label: "State", DataType: domain.AttributeTypeText},
		},
	}

	pos := len(p.Columns)
	for _, key := range b.AttributeKeys {
		def, ok := set[key]
		if !ok {
			s.log.WarnContext(ctx, "skipping stale attribute key",
				slog.String("batch_id", b.ID.String()),
				slog.String("key", key),
			)
			continue
		}
		p.Columns = append(p.Columns, domain.ProjectionColumn{
			Position:        pos,
			FieldKey:        def.TechnicalKey,
			Label:           def.DisplayLabel,
			DataType:        def.DataType,
			NullSafeNumeric: def.DataType.IsNumeric(),
		})
		pos++
	}

	if err := s.projections.Replace(ctx, p); err != nil {
		return nil, fmt.Errorf("replace projection: %w", err)
	}

	s.log.InfoContext(ctx, "projection generated",
		slog.String("batch_id", b.ID.String()),
		slog.Int("columns", len(p.Columns)),
	)
	return p, nil
}

// Regenerate rebuilds the layout for an existing batch, picking up renamed
// or deleted definitions since the last generation.
func (s *Service) Regenerate(ctx context.Context, batchID uuid.UUID) (*domain.Projection, error) {
	if _, ok := ctxutil.ActorIDFromCtx(ctx); !ok {
		return nil, domain.ErrForbidden
	}
	if batchID == uuid.Nil {
		return nil, domain.NewValidationError("batch_id", "required")
	}

	b, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return s.Generate(ctx, b)
}

// Get returns the batch's current projection.
func (s *Service) Get(ctx context.Context, batchID uuid.UUID) (*domain.Projection, error) {
	if batchID == uuid.Nil {
		return nil, domain.NewValidationError("batch_id", "required")
	}
	return s.projections.GetByBatch(ctx, batchID)
}
