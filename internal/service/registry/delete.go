package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// Delete retires an attribute definition and drops its storage column.
// Refused while any row still carries a non-empty value for the attribute;
// zero and blank count as empty. Definition removal, the column drop and
// the cleanup of projection columns bound to the key run in one
// transaction, so no persisted layout keeps pointing at the dropped field.
func (s *Service) Delete(ctx context.Context, input DeleteInput) error {
	if !ctxutil.IsAdminCtx(ctx) {
		return domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return err
	}

	def, err := s.defs.GetByID(ctx, input.ID)
	if err != nil {
		return fmt.Errorf("get definition: %w", err)
	}

	if def.Materialized {
		inUse, err := s.schema.ColumnInUse(ctx, def)
		if err != nil {
			return fmt.Errorf("check column usage: %w", err)
		}
		if inUse {
			return fmt.Errorf("attribute %q still has values: %w", def.TechnicalKey, domain.ErrAttributeInUse)
		}
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.defs.Delete(txCtx, def.ID); err != nil {
			return fmt.Errorf("delete definition: %w", err)
		}
		if err := s.schema.Drop(txCtx, def); err != nil {
			return fmt.Errorf("drop column: %w", err)
		}
		if err := s.projections.DeleteColumnsByKey(txCtx, def.TechnicalKey); err != nil {
			return fmt.Errorf("prune projection columns: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "attribute deleted",
		slog.String("key", def.TechnicalKey),
		slog.String("label", def.DisplayLabel),
	)
	return nil
}
