package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// fieldDiff is one detected change on a row or batch field.
type fieldDiff struct {
	key      string
	label    string
	oldValue string
	newValue string
}

// diffValues compares old and new values field by field in canonical form.
// Writes that change nothing produce no diff, so re-saving a form full of
// unchanged data leaves the changelog silent. Numeric values compare after
// normalization, so "5.0" against "5" is a no-op.
func diffValues(set domain.AttributeSet, types map[string]domain.AttributeType, old, updated map[string]string) []fieldDiff {
	var diffs []fieldDiff
	for key, raw := range updated {
		t := types[key]
		oldV := domain.NormalizeValue(t, old[key])
		newV := domain.NormalizeValue(t, raw)
		if oldV == newV {
			continue
		}
		diffs = append(diffs, fieldDiff{
			key:      key,
			label:    set.Label(key),
			oldValue: oldV,
			newValue: newV,
		})
	}
	return diffs
}

// entriesFor renders field diffs as record-level audit entries.
func entriesFor(b *domain.Batch, row *domain.ValueRow, diffs []fieldDiff, actorID uuid.UUID, now time.Time) []*domain.AuditEntry {
	entries := make([]*domain.AuditEntry, 0, len(diffs))
	for _, d := range diffs {
		key := d.key
		rowID := row.ID
		empKey := row.EmployeeKey
		entries = append(entries, &domain.AuditEntry{
			ID:          uuid.New(),
			BatchID:     b.ID,
			RowID:       &rowID,
			TenantID:    b.TenantID,
			EmployeeKey: &empKey,
			Level:       domain.AuditLevelRecord,
			Action:      domain.AuditActionFieldChange,
			FieldKey:    &key,
			OldValue:    d.oldValue,
			NewValue:    d.newValue,
			Description: describeDiff(d),
			ActorID:     actorID,
			CreatedAt:   now,
		})
	}
	return entries
}

func describeDiff(d fieldDiff) string {
	oldV, newV := d.oldValue, d.newValue
	if oldV == "" {
		oldV = "(empty)"
	}
	if newV == "" {
		newV = "(empty)"
	}
	return fmt.Sprintf("%s: %s -> %s", d.label, oldV, newV)
}
