package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidLabel          = errors.New("invalid label")
	ErrDuplicateKey          = errors.New("duplicate technical key")
	ErrAttributeInUse        = errors.New("attribute in use")
	ErrMaterializationFailed = errors.New("materialization failed")
	ErrBatchNotDraft         = errors.New("batch is not in draft state")
	ErrBatchNotInUse         = errors.New("batch is not in use")
	ErrBatchAlreadyImported  = errors.New("batch already has imported rows")
	ErrBatchEmpty            = errors.New("batch has no rows")
	ErrBatchImmutable        = errors.New("approved batch data is immutable")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrRequiredFieldMissing  = errors.New("required field missing")
	ErrUnknownImportColumn   = errors.New("unknown import column")
	ErrDuplicateImportColumn = errors.New("duplicate import column")
	ErrDuplicateEmployee     = errors.New("duplicate employee in batch")
	ErrValidationFailed      = errors.New("validation failed")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects all input field errors of one request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// NewValidationError creates a ValidationError with a single field error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// RowIssue points at one offending row in an import payload.
// Line is 1-based over the imported rows.
type RowIssue struct {
	Line        int
	EmployeeKey string
	Field       string
}

// UnknownColumnsError reports every import column that matches no effective
// attribute definition. All columns are collected before the import aborts so
// the operator can fix the spreadsheet in one pass.
type UnknownColumnsError struct {
	Columns []string
}

func (e *UnknownColumnsError) Error() string {
	return fmt.Sprintf("unknown import columns: %s", strings.Join(e.Columns, ", "))
}

func (e *UnknownColumnsError) Unwrap() error { return ErrUnknownImportColumn }

// DuplicateColumnsError reports import headers that resolve to an attribute
// some other header in the same sheet already covers, such as a display
// label next to its own technical key.
type DuplicateColumnsError struct {
	Columns []string
}

func (e *DuplicateColumnsError) Error() string {
	return fmt.Sprintf("duplicate import columns: %s", strings.Join(e.Columns, ", "))
}

func (e *DuplicateColumnsError) Unwrap() error { return ErrDuplicateImportColumn }

// EmployeeLookupError reports every imported row whose employee key resolves
// to no employee in the batch's tenant.
type EmployeeLookupError struct {
	Issues []RowIssue
}

func (e *EmployeeLookupError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("row %d: no employee with key %q", e.Issues[0].Line, e.Issues[0].EmployeeKey)
	}
	return fmt.Sprintf("%d rows reference unknown employees", len(e.Issues))
}

func (e *EmployeeLookupError) Unwrap() error { return ErrEmployeeNotFound }

// RequiredFieldError reports every (row, attribute) pair where a
// required-on-import attribute is blank.
type RequiredFieldError struct {
	Issues []RowIssue
}

func (e *RequiredFieldError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("row %d: field %q must not be empty", e.Issues[0].Line, e.Issues[0].Field)
	}
	return fmt.Sprintf("%d required fields are empty", len(e.Issues))
}

func (e *RequiredFieldError) Unwrap() error { return ErrRequiredFieldMissing }

// DuplicateEmployeeError reports employee keys appearing more than once in a
// single import payload.
type DuplicateEmployeeError struct {
	Keys []string
}

func (e *DuplicateEmployeeError) Error() string {
	return fmt.Sprintf("duplicate employees in batch: %s", strings.Join(e.Keys, ", "))
}

func (e *DuplicateEmployeeError) Unwrap() error { return ErrDuplicateEmployee }

// InvalidValueError reports every imported cell that cannot be parsed as its
// attribute's data type.
type InvalidValueError struct {
	Issues []RowIssue
}

func (e *InvalidValueError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("row %d: field %q has an invalid value", e.Issues[0].Line, e.Issues[0].Field)
	}
	return fmt.Sprintf("%d cells hold invalid values", len(e.Issues))
}

func (e *InvalidValueError) Unwrap() error { return ErrValidationFailed }
