package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorResponse carries a message plus structured details for collected
// validation and import errors, so a broken spreadsheet comes back as one
// actionable list.
type errorResponse struct {
	Error   string           `json:"error"`
	Fields  []fieldErrorDTO  `json:"fields,omitempty"`
	Columns []string         `json:"columns,omitempty"`
	Keys    []string         `json:"keys,omitempty"`
	Rows    []rowIssueDTO    `json:"rows,omitempty"`
}

type fieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type rowIssueDTO struct {
	Line        int    `json:"line,omitempty"`
	EmployeeKey string `json:"employeeKey,omitempty"`
	Field       string `json:"field,omitempty"`
}

func toRowIssues(issues []domain.RowIssue) []rowIssueDTO {
	out := make([]rowIssueDTO, len(issues))
	for i, is := range issues {
		out[i] = rowIssueDTO{Line: is.Line, EmployeeKey: is.EmployeeKey, Field: is.Field}
	}
	return out
}

// handleError maps service errors to HTTP statuses. Collected import errors
// carry their details; everything unexpected is logged and hidden behind 500.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		vErr   *domain.ValidationError
		uErr   *domain.UnknownColumnsError
		cErr   *domain.DuplicateColumnsError
		dErr   *domain.DuplicateEmployeeError
		lErr   *domain.EmployeeLookupError
		reqErr *domain.RequiredFieldError
		iErr   *domain.InvalidValueError
	)

	switch {
	case errors.As(err, &vErr):
		fields := make([]fieldErrorDTO, len(vErr.Errors))
		for i, fe := range vErr.Errors {
			fields[i] = fieldErrorDTO{Field: fe.Field, Message: fe.Message}
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
	case errors.As(err, &uErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Columns: uErr.Columns})
	case errors.As(err, &cErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Columns: cErr.Columns})
	case errors.As(err, &dErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Keys: dErr.Keys})
	case errors.As(err, &lErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Rows: toRowIssues(lErr.Issues)})
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Rows: toRowIssues(reqErr.Issues)})
	case errors.As(err, &iErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Rows: toRowIssues(iErr.Issues)})
	case errors.Is(err, domain.ErrInvalidLabel):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrDuplicateKey),
		errors.Is(err, domain.ErrAttributeInUse),
		errors.Is(err, domain.ErrBatchNotDraft),
		errors.Is(err, domain.ErrBatchNotInUse),
		errors.Is(err, domain.ErrBatchAlreadyImported),
		errors.Is(err, domain.ErrBatchEmpty),
		errors.Is(err, domain.ErrBatchImmutable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrMaterializationFailed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrValidationFailed):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
