package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// Rename changes an attribute's display label. The technical key and the
// storage column are untouched, so existing batches and values keep working;
// only the column's label comment is re-synced.
func (s *Service) Rename(ctx context.Context, input RenameInput) (*domain.AttributeDefinition, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	def, err := s.defs.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("get definition: %w", err)
	}

	label := strings.TrimSpace(input.DisplayLabel)
	if label == def.DisplayLabel {
		return def, nil
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.defs.UpdateLabel(txCtx, def.ID, label); err != nil {
			return fmt.Errorf("update label: %w", err)
		}
		if def.Materialized {
			if err := s.schema.SyncLabel(txCtx, def.TechnicalKey, label); err != nil {
				return fmt.Errorf("sync column label: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "attribute renamed",
		slog.String("key", def.TechnicalKey),
		slog.String("old_label", def.DisplayLabel),
		slog.String("new_label", label),
	)

	def.DisplayLabel = label
	return def, nil
}
