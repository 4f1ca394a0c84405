package domain

// AttributeType is the data type of a dynamic attribute.
type AttributeType string

const (
	AttributeTypeText    AttributeType = "text"
	AttributeTypeInteger AttributeType = "integer"
	AttributeTypeDecimal AttributeType = "decimal"
	AttributeTypeDate    AttributeType = "date"
	AttributeTypeBoolean AttributeType = "boolean"
)

func (t AttributeType) String() string { return string(t) }

func (t AttributeType) IsValid() bool {
	switch t {
	case AttributeTypeText, AttributeTypeInteger, AttributeTypeDecimal,
		AttributeTypeDate, AttributeTypeBoolean:
		return true
	}
	return false
}

// IsNumeric reports whether values of this type are numbers.
// Numeric storage columns are relaxed to nullable with no default so rows
// created before materialization are never forced to zero.
func (t AttributeType) IsNumeric() bool {
	return t == AttributeTypeInteger || t == AttributeTypeDecimal
}

// LifecycleState is the approval state shared by batches and value rows.
// A row's state is a per-row snapshot of the last transition applied to it,
// so rows can be superseded independently of their batch.
type LifecycleState string

const (
	StateDraft LifecycleState = "draft"
	StateInUse LifecycleState = "in_use"
	StateUsed  LifecycleState = "used"
)

func (s LifecycleState) String() string { return string(s) }

func (s LifecycleState) IsValid() bool {
	switch s {
	case StateDraft, StateInUse, StateUsed:
		return true
	}
	return false
}

// Label returns the human-readable state name used in audit descriptions.
func (s LifecycleState) Label() string {
	switch s {
	case StateDraft:
		return "Draft"
	case StateInUse:
		return "In use"
	case StateUsed:
		return "Used"
	}
	return string(s)
}

// AuditLevel distinguishes batch-wide entries from per-row entries.
type AuditLevel string

const (
	AuditLevelBatch  AuditLevel = "batch"
	AuditLevelRecord AuditLevel = "record"
)

func (l AuditLevel) String() string { return string(l) }

func (l AuditLevel) IsValid() bool {
	return l == AuditLevelBatch || l == AuditLevelRecord
}

// AuditAction identifies what kind of mutation an audit entry records.
type AuditAction string

const (
	AuditActionCreate      AuditAction = "create"
	AuditActionStateChange AuditAction = "state_change"
	AuditActionFieldChange AuditAction = "field_change"
	AuditActionImport      AuditAction = "import"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionStateChange, AuditActionFieldChange, AuditActionImport:
		return true
	}
	return false
}
