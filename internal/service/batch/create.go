package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// Create opens a new draft batch. A repeated submit with the same name inside
// the dedup window returns the existing empty draft instead of a second one;
// a draft that already has rows never absorbs a create.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Batch, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	now := time.Now().UTC()

	if s.cfg.DedupWindow > 0 {
		existing, err := s.batches.FindRecentEmptyDraft(ctx, input.TenantID, name, now.Add(-s.cfg.DedupWindow))
		if err == nil {
			s.log.InfoContext(ctx, "create absorbed by recent empty draft",
				slog.String("batch_id", existing.ID.String()),
				slog.String("name", name),
			)
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("dedup lookup: %w", err)
		}
	}

	b := &domain.Batch{
		ID:            uuid.New(),
		Name:          name,
		TenantID:      input.TenantID,
		State:         domain.StateDraft,
		AttributeKeys: []string{},
		CreatedBy:     actorID,
		CreatedAt:     now,
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.batches.Create(txCtx, b); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		entry := &domain.AuditEntry{
			ID:          uuid.New(),
			BatchID:     b.ID,
			TenantID:    b.TenantID,
			Level:       domain.AuditLevelBatch,
			Action:      domain.AuditActionCreate,
			Description: fmt.Sprintf("Batch %q created", name),
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

	s.log.InfoContext(ctx, "batch created",
		slog.String("batch_id", b.ID.String()),
		slog.String("tenant_id", b.TenantID.String()),
		slog.String("name", name),
	)
	return b, nil
}
