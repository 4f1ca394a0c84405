package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one immutable line of a batch's change history. Entries are
// append-only; a correction is a new entry. They are removed only by cascade
// when the owning batch or row is deleted.
type AuditEntry struct {
	ID             uuid.UUID
	BatchID        uuid.UUID
	RowID          *uuid.UUID
	TenantID       uuid.UUID
	EmployeeKey    *string
	Level          AuditLevel
	Action         AuditAction
	FieldKey       *string
	OldValue       string
	NewValue       string
	Description    string
	IsAutomatic    bool       // true when system-triggered, e.g. cascading supersession
	TriggerBatchID *uuid.UUID // the batch whose approval caused this entry
	ActorID        uuid.UUID
	CreatedAt      time.Time
}

// AuditCounts holds per-level entry counts for a batch.
type AuditCounts struct {
	Batch  int
	Record int
}
