package domain

import (
	"time"

	"github.com/google/uuid"
)

// Fixed leading projection columns, ahead of the dynamic attribute columns.
const (
	ProjectionColEmployeeName = "employee_name"
	ProjectionColEmployeeKey  = "employee_key"
	ProjectionColState        = "state"
)

// Projection is a generated read-only column layout reflecting a batch's
// materialized attribute set at generation time. A batch owns at most one;
// regeneration deletes the stale projection first.
type Projection struct {
	ID          uuid.UUID
	BatchID     uuid.UUID
	GeneratedAt time.Time
	Columns     []ProjectionColumn
}

// ProjectionColumn is one ordered column spec.
type ProjectionColumn struct {
	Position        int
	FieldKey        string
	Label           string
	DataType        AttributeType
	NullSafeNumeric bool // numeric columns render blank, not zero, for absent values
}
