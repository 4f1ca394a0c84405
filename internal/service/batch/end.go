package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// End retires an active batch: its remaining active rows and the batch move
// to used, and the expiration date is stamped. Values stay readable forever;
// only the lifecycle ends.
func (s *Service) End(ctx context.Context, batchID uuid.UUID) (*domain.Batch, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrForbidden
	}
	if batchID == uuid.Nil {
		return nil, domain.NewValidationError("batch_id", "required")
	}

	var b *domain.Batch
	now := time.Now().UTC()

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		b, err = s.batches.GetByIDForUpdate(txCtx, batchID)
		if err != nil {
			return fmt.Errorf("get batch: %w", err)
		}
		if b.State != domain.StateInUse {
			return fmt.Errorf("batch %s is %s: %w", b.ID, b.State, domain.ErrBatchNotInUse)
		}

		if err := s.batches.EndRows(txCtx, b.ID); err != nil {
			return fmt.Errorf("end rows: %w", err)
		}
		if err := s.batches.MarkUsed(txCtx, b.ID, now); err != nil {
			return fmt.Errorf("mark used: %w", err)
		}

		entry := &domain.AuditEntry{
			ID:          uuid.New(),
			BatchID:     b.ID,
			TenantID:    b.TenantID,
			Level:       domain.AuditLevelBatch,
			Action:      domain.AuditActionStateChange,
			OldValue:    domain.StateInUse.Label(),
			NewValue:    domain.StateUsed.Label(),
			Description: "Batch ended",
			ActorID:     actorID,
			CreatedAt:   now,
		}
		if err := s.audit.Append(txCtx, entry); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.State = domain.StateUsed
	b.ExpirationDate = &now
	s.log.InfoContext(ctx, "batch ended",
		slog.String("batch_id", b.ID.String()),
	)
	return b, nil
}
