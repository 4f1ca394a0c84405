package domain

import "github.com/google/uuid"

// Employee is the read-only slice of the upstream employee directory the
// engine needs: a national-ID-equivalent identity key scoped to a tenant,
// plus a display name for projections and audit descriptions.
type Employee struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	IdentityKey string
	FullName    string
}
