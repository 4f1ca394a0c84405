package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttributeDefinition is an administrator-declared dynamic data column.
// TechnicalKey is derived from the display label once, at creation, and is
// immutable afterwards: changing it would orphan the materialized storage
// column and every projection referencing it.
type AttributeDefinition struct {
	ID               uuid.UUID
	DisplayLabel     string
	TechnicalKey     string
	DataType         AttributeType
	TenantIDs        []uuid.UUID // empty = global
	RequiredOnImport bool
	Materialized     bool
	CreatedAt        time.Time
}

// IsGlobal reports whether the definition applies to every tenant.
func (d *AttributeDefinition) IsGlobal() bool {
	return len(d.TenantIDs) == 0
}

// AppliesTo reports whether the definition is effective for the tenant.
func (d *AttributeDefinition) AppliesTo(tenantID uuid.UUID) bool {
	if d.IsGlobal() {
		return true
	}
	for _, id := range d.TenantIDs {
		if id == tenantID {
			return true
		}
	}
	return false
}

// AttributeSet indexes effective definitions by technical key.
type AttributeSet map[string]*AttributeDefinition

// NewAttributeSet builds an AttributeSet from a list of definitions.
func NewAttributeSet(defs []*AttributeDefinition) AttributeSet {
	set := make(AttributeSet, len(defs))
	for _, d := range defs {
		set[d.TechnicalKey] = d
	}
	return set
}

// Label resolves a field key to its display label, falling back to the key
// itself when it belongs to no effective definition.
func (s AttributeSet) Label(key string) string {
	if d, ok := s[key]; ok {
		return d.DisplayLabel
	}
	return key
}

// Required returns the definitions flagged required-on-import.
func (s AttributeSet) Required() []*AttributeDefinition {
	var out []*AttributeDefinition
	for _, d := range s {
		if d.RequiredOnImport {
			out = append(out, d)
		}
	}
	return out
}
