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

// Approve activates a draft batch. For every employee in the batch, any row
// of theirs still active in another batch is superseded first (moved to
// used, with an automatic record-level entry naming this batch as the
// trigger). Batches left with no active rows by the supersession are closed.
// The whole cascade is one transaction; per-employee advisory locks
// serialize overlapping approvals touching the same people.
func (s *Service) Approve(ctx context.Context, batchID uuid.UUID) (*domain.Batch, error) {
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
		if b.State != domain.StateDraft {
			return fmt.Errorf("batch %s is %s: %w", b.ID, b.State, domain.ErrBatchNotDraft)
		}
		if b.Stats.Total == 0 {
			return fmt.Errorf("batch %s: %w", b.ID, domain.ErrBatchEmpty)
		}

		rows, err := s.batches.RowsByBatch(txCtx, b.ID, nil, nil)
		if err != nil {
			return fmt.Errorf("load rows: %w", err)
		}
		employeeKeys := make([]string, 0, len(rows))
		for _, r := range rows {
			employeeKeys = append(employeeKeys, r.EmployeeKey)
		}

		if err := s.batches.LockEmployees(txCtx, b.TenantID, employeeKeys); err != nil {
			return fmt.Errorf("lock employees: %w", err)
		}

		superseded, err := s.batches.ActiveRowsElsewhere(txCtx, b.TenantID, employeeKeys, b.ID)
		if err != nil {
			return fmt.Errorf("find active rows: %w", err)
		}

		var entries []*domain.AuditEntry
		if len(superseded) > 0 {
			ids := make([]uuid.UUID, 0, len(superseded))
			touched := map[uuid.UUID]bool{}
			for _, r := range superseded {
				ids = append(ids, r.ID)
				touched[r.BatchID] = true

				rowID := r.ID
				empKey := r.EmployeeKey
				entries = append(entries, &domain.AuditEntry{
					ID:             uuid.New(),
					BatchID:        r.BatchID,
					RowID:          &rowID,
					TenantID:       b.TenantID,
					EmployeeKey:    &empKey,
					Level:          domain.AuditLevelRecord,
					Action:         domain.AuditActionStateChange,
					OldValue:       domain.StateInUse.Label(),
					NewValue:       domain.StateUsed.Label(),
					Description:    fmt.Sprintf("Superseded by batch %q", b.Name),
					IsAutomatic:    true,
					TriggerBatchID: &b.ID,
					ActorID:        actorID,
					CreatedAt:      now,
				})
			}
			if err := s.batches.MarkRowsUsed(txCtx, ids); err != nil {
				return fmt.Errorf("supersede rows: %w", err)
			}

			closed, err := s.closeDrainedBatches(txCtx, touched, b, actorID, now)
			if err != nil {
				return err
			}
			entries = append(entries, closed...)
		}

		if err := s.batches.ActivateRows(txCtx, b.ID, now); err != nil {
			return fmt.Errorf("activate rows: %w", err)
		}
		if err := s.batches.MarkInUse(txCtx, b.ID, now); err != nil {
			return fmt.Errorf("mark in use: %w", err)
		}

		entries = append(entries, &domain.AuditEntry{
			ID:          uuid.New(),
			BatchID:     b.ID,
			TenantID:    b.TenantID,
			Level:       domain.AuditLevelBatch,
			Action:      domain.AuditActionStateChange,
			OldValue:    domain.StateDraft.Label(),
			NewValue:    domain.StateInUse.Label(),
			Description: fmt.Sprintf("Batch approved, %d rows activated", len(rows)),
			ActorID:     actorID,
			CreatedAt:   now,
		})
		if err := s.audit.AppendAll(txCtx, entries); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.State = domain.StateInUse
	b.EffectiveDate = &now
	s.log.InfoContext(ctx, "batch approved",
		slog.String("batch_id", b.ID.String()),
		slog.Int("rows", b.Stats.Total),
	)
	return b, nil
}

// closeDrainedBatches flips batches whose rows are now all used to the used
// state and returns their audit entries.
func (s *Service) closeDrainedBatches(ctx context.Context, touched map[uuid.UUID]bool, trigger *domain.Batch, actorID uuid.UUID, now time.Time) ([]*domain.AuditEntry, error) {
	ids := make([]uuid.UUID, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}

	stats, err := s.batches.StatsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("stats for touched batches: %w", err)
	}

	var entries []*domain.AuditEntry
	for _, id := range ids {
		st, ok := stats[id]
		if !ok || !st.Closed() {
			continue
		}
		if err := s.batches.MarkUsed(ctx, id, now); err != nil {
			return nil, fmt.Errorf("close batch %s: %w", id, err)
		}
		entries = append(entries, &domain.AuditEntry{
			ID:             uuid.New(),
			BatchID:        id,
			TenantID:       trigger.TenantID,
			Level:          domain.AuditLevelBatch,
			Action:         domain.AuditActionStateChange,
			OldValue:       domain.StateInUse.Label(),
			NewValue:       domain.StateUsed.Label(),
			Description:    fmt.Sprintf("All rows superseded by batch %q", trigger.Name),
			IsAutomatic:    true,
			TriggerBatchID: &trigger.ID,
			ActorID:        actorID,
			CreatedAt:      now,
		})
	}
	return entries, nil
}
