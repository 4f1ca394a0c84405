package domain

import (
	"time"

	"github.com/google/uuid"
)

// Batch is a dated collection of per-employee attribute values sharing an
// approval lifecycle: Draft (importable, mutable) → InUse (approved) →
// Used (terminal, historical).
type Batch struct {
	ID             uuid.UUID
	Name           string
	TenantID       uuid.UUID
	State          LifecycleState
	EffectiveDate  *time.Time // set on the transition into InUse
	ExpirationDate *time.Time // set on the transition into Used
	AttributeKeys  []string   // the imported attribute set, in column order
	CreatedBy      uuid.UUID
	CreatedAt      time.Time

	Stats RowStats
}

// RowStats are derived counts over a batch's rows. Row state is
// authoritative; these are never stored.
type RowStats struct {
	Total int
	Used  int
}

// Closed reports whether every row of the batch has been superseded.
func (s RowStats) Closed() bool {
	return s.Total > 0 && s.Used == s.Total
}

// ValueRow is one employee's attribute values within a batch. The employee
// key is unique per batch. Values holds one slot per materialized attribute,
// keyed by technical key, in canonical display form.
type ValueRow struct {
	ID           uuid.UUID
	BatchID      uuid.UUID
	TenantID     uuid.UUID
	EmployeeKey  string
	EmployeeName string
	State        LifecycleState
	ActivatedAt  *time.Time // set exactly once, on the first transition into InUse
	Values       map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ImportRow is one row of an import payload before validation. Line is the
// 1-based source line for error reporting; zero when the source has no lines.
type ImportRow struct {
	Line        int
	EmployeeKey string
	Values      map[string]string
}
