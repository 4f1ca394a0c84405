package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// Detail is a batch with its rows and audit entry counts.
type Detail struct {
	Batch  *domain.Batch
	Rows   []*domain.ValueRow
	Counts domain.AuditCounts
	// Labels maps the batch's attribute keys to their current display
	// labels, for rendering.
	Labels map[string]string
}

// Get returns one batch with its value rows.
func (s *Service) Get(ctx context.Context, batchID uuid.UUID) (*Detail, error) {
	if batchID == uuid.Nil {
		return nil, domain.NewValidationError("batch_id", "required")
	}

	b, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}

	set, err := s.effectiveSet(ctx, b.TenantID)
	if err != nil {
		return nil, fmt.Errorf("effective definitions: %w", err)
	}
	types := typesOf(set, b.AttributeKeys)

	rows, err := s.batches.RowsByBatch(ctx, b.ID, b.AttributeKeys, types)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}

	counts, err := s.audit.Counts(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("audit counts: %w", err)
	}

	labels := make(map[string]string, len(b.AttributeKeys))
	for _, k := range b.AttributeKeys {
		labels[k] = set.Label(k)
	}

	return &Detail{Batch: b, Rows: rows, Counts: counts, Labels: labels}, nil
}

// List returns the tenant's batches, newest first.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Batch, error) {
	if tenantID == uuid.Nil {
		return nil, domain.NewValidationError("tenant_id", "required")
	}
	batches, err := s.batches.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// Changelog returns a batch's audit entries, newest first, optionally
// narrowed to one level.
func (s *Service) Changelog(ctx context.Context, batchID uuid.UUID, level *domain.AuditLevel) ([]*domain.AuditEntry, error) {
	if batchID == uuid.Nil {
		return nil, domain.NewValidationError("batch_id", "required")
	}
	if level != nil && !level.IsValid() {
		return nil, domain.NewValidationError("level", "must be batch or record")
	}

	if _, err := s.batches.GetByID(ctx, batchID); err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}

	entries, err := s.audit.ListByBatch(ctx, batchID, level)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
