package batch

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// CreateInput holds the parameters for creating a draft batch.
type CreateInput struct {
	TenantID uuid.UUID
	Name     string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > 200 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ImportInput holds the parameters for importing rows into a draft batch.
// Rows carry display-label keyed values as read from the spreadsheet.
type ImportInput struct {
	BatchID uuid.UUID
	Rows    []domain.ImportRow
	// Headers lists the spreadsheet's value columns by display label, in
	// sheet order. Import resolves them against the effective definitions.
	Headers []string
}

// Validate checks all fields and collects all errors.
func (i ImportInput) Validate() error {
	var errs []domain.FieldError

	if i.BatchID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "batch_id", Message: "required"})
	}
	if len(i.Rows) == 0 {
		errs = append(errs, domain.FieldError{Field: "rows", Message: "at least one row required"})
	}
	if len(i.Headers) == 0 {
		errs = append(errs, domain.FieldError{Field: "headers", Message: "at least one value column required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RenameInput holds the parameters for renaming a batch.
type RenameInput struct {
	BatchID uuid.UUID
	Name    string
}

// Validate checks all fields and collects all errors.
func (i RenameInput) Validate() error {
	var errs []domain.FieldError

	if i.BatchID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "batch_id", Message: "required"})
	}
	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > 200 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateRowInput holds the parameters for editing one row's values.
type UpdateRowInput struct {
	BatchID uuid.UUID
	RowID   uuid.UUID
	// Values maps technical keys to new raw values. Blank clears.
	Values map[string]string
}

// Validate checks all fields and collects all errors.
func (i UpdateRowInput) Validate() error {
	var errs []domain.FieldError

	if i.BatchID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "batch_id", Message: "required"})
	}
	if i.RowID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "row_id", Message: "required"})
	}
	if len(i.Values) == 0 {
		errs = append(errs, domain.FieldError{Field: "values", Message: "at least one value required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
