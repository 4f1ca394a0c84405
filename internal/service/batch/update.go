package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/pkg/ctxutil"
)

// Rename changes a batch's name. Allowed in any state; the name is a label,
// not data. A changed name is logged as a batch-level field change.
func (s *Service) Rename(ctx context.Context, input RenameInput) (*domain.Batch, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	b, err := s.batches.GetByID(ctx, input.BatchID)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == b.Name {
		return b, nil
	}

	now := time.Now().UTC()
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.batches.UpdateName(txCtx, b.ID, name); err != nil {
			return fmt.Errorf("update name: %w", err)
		}
		fieldKey := "name"
		entry := &domain.AuditEntry{
			ID:          uuid.New(),
			BatchID:     b.ID,
			TenantID:    b.TenantID,
			Level:       domain.AuditLevelBatch,
			Action:      domain.AuditActionFieldChange,
			FieldKey:    &fieldKey,
			OldValue:    b.Name,
			NewValue:    name,
			Description: fmt.Sprintf("Name: %s -> %s", b.Name, name),
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

	b.Name = name
	return b, nil
}

// UpdateRow edits one draft row's attribute values. Every actual change is
// logged per field; values that normalize to what is already stored write
// nothing and log nothing. Rows of approved batches are immutable.
func (s *Service) UpdateRow(ctx context.Context, input UpdateRowInput) (*domain.ValueRow, error) {
	actorID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	b, err := s.batches.GetByID(ctx, input.BatchID)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	if b.State != domain.StateDraft {
		return nil, fmt.Errorf("batch %s is %s: %w", b.ID, b.State, domain.ErrBatchImmutable)
	}

	set, err := s.effectiveSet(ctx, b.TenantID)
	if err != nil {
		return nil, fmt.Errorf("effective definitions: %w", err)
	}
	types := typesOf(set, b.AttributeKeys)

	known := map[string]bool{}
	for _, k := range b.AttributeKeys {
		known[k] = true
	}
	var errs []domain.FieldError
	for key, raw := range input.Values {
		if !known[key] {
			errs = append(errs, domain.FieldError{Field: key, Message: "not part of this batch"})
			continue
		}
		if !domain.ValidValue(types[key], raw) {
			errs = append(errs, domain.FieldError{
				Field:   key,
				Message: fmt.Sprintf("not a valid %s", types[key]),
			})
		}
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	row, err := s.batches.GetRow(ctx, input.RowID, b.AttributeKeys, types)
	if err != nil {
		return nil, fmt.Errorf("get row: %w", err)
	}
	if row.BatchID != b.ID {
		return nil, fmt.Errorf("row %s: %w", input.RowID, domain.ErrNotFound)
	}

	diffs := diffValues(set, types, row.Values, input.Values)
	if len(diffs) == 0 {
		return row, nil
	}

	now := time.Now().UTC()
	changed := make(map[string]string, len(diffs))
	for _, d := range diffs {
		changed[d.key] = d.newValue
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.batches.UpdateRowValues(txCtx, row.ID, changed, types); err != nil {
			return fmt.Errorf("update row: %w", err)
		}
		if err := s.audit.AppendAll(txCtx, entriesFor(b, row, diffs, actorID, now)); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for k, v := range changed {
		row.Values[k] = v
	}
	row.UpdatedAt = now

	s.log.InfoContext(ctx, "row updated",
		slog.String("batch_id", b.ID.String()),
		slog.String("row_id", row.ID.String()),
		slog.Int("fields_changed", len(diffs)),
	)
	return row, nil
}
