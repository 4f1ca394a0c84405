package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// Delete removes a draft batch and everything hanging off it. Approved
// batches are history and never deleted; they end instead.
func (s *Service) Delete(ctx context.Context, batchID uuid.UUID) error {
	if _, ok := ctxutil.ActorIDFromCtx(ctx); !ok {
		return domain.ErrForbidden
	}
	if batchID == uuid.Nil {
		return domain.NewValidationError("batch_id", "required")
	}

	b, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("get batch: %w", err)
	}
	if b.State != domain.StateDraft {
		return fmt.Errorf("batch %s is %s: %w", b.ID, b.State, domain.ErrBatchNotDraft)
	}

	if err := s.batches.Delete(ctx, b.ID); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}

	s.log.InfoContext(ctx, "batch deleted",
		slog.String("batch_id", b.ID.String()),
		slog.String("name", b.Name),
	)
	return nil
}
