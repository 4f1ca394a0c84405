package registry

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// DefineInput holds the parameters for defining an attribute.
type DefineInput struct {
	DisplayLabel     string
	DataType         domain.AttributeType
	TenantIDs        []uuid.UUID // empty = global
	RequiredOnImport bool
}

// Validate checks all fields and collects all errors.
func (i DefineInput) Validate() error {
	var errs []domain.FieldError

	label := strings.TrimSpace(i.DisplayLabel)
	if label == "" {
		errs = append(errs, domain.FieldError{Field: "display_label", Message: "required"})
	}
	if len(label) > 200 {
		errs = append(errs, domain.FieldError{Field: "display_label", Message: "max 200 characters"})
	}
	if !i.DataType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "data_type", Message: "must be one of text, integer, decimal, date, boolean"})
	}
	for _, tid := range i.TenantIDs {
		if tid == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "tenant_ids", Message: "must not contain the nil UUID"})
			break
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RenameInput holds the parameters for renaming an attribute.
type RenameInput struct {
	ID           uuid.UUID
	DisplayLabel string
}

// Validate checks all fields and collects all errors.
func (i RenameInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	label := strings.TrimSpace(i.DisplayLabel)
	if label == "" {
		errs = append(errs, domain.FieldError{Field: "display_label", Message: "required"})
	}
	if len(label) > 200 {
		errs = append(errs, domain.FieldError{Field: "display_label", Message: "max 200 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteInput holds the parameters for deleting an attribute.
type DeleteInput struct {
	ID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DeleteInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return nil
}
