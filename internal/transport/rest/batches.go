package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/adapter/xlsx"
	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/internal/service/batch"
)

// maxUploadBytes bounds the accepted workbook size.
const maxUploadBytes = 20 << 20

// batchService defines the minimal interface needed by BatchHandler.
type batchService interface {
	Create(ctx context.Context, input batch.CreateInput) (*domain.Batch, error)
	Get(ctx context.Context, batchID uuid.UUID) (*batch.Detail, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Batch, error)
	Rename(ctx context.Context, input batch.RenameInput) (*domain.Batch, error)
	Delete(ctx context.Context, batchID uuid.UUID) error
	Import(ctx context.Context, input batch.ImportInput) (*batch.ImportResult, error)
	Approve(ctx context.Context, batchID uuid.UUID) (*domain.Batch, error)
	End(ctx context.Context, batchID uuid.UUID) (*domain.Batch, error)
	UpdateRow(ctx context.Context, input batch.UpdateRowInput) (*domain.ValueRow, error)
	Changelog(ctx context.Context, batchID uuid.UUID, level *domain.AuditLevel) ([]*domain.AuditEntry, error)
}

// sheetParser parses an uploaded workbook into import rows.
type sheetParser interface {
	Parse(src io.Reader) (*xlsx.Sheet, error)
}

// BatchHandler serves the batch lifecycle REST endpoints.
type BatchHandler struct {
	svc    batchService
	sheets sheetParser
	log    *slog.Logger
}

// NewBatchHandler creates a BatchHandler.
func NewBatchHandler(svc batchService, sheets sheetParser, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{svc: svc, sheets: sheets, log: logger.With("handler", "batches")}
}

type createBatchRequest struct {
	TenantID string `json:"tenantId"`
	Name     string `json:"name"`
}

type renameBatchRequest struct {
	Name string `json:"name"`
}

type updateRowRequest struct {
	Values map[string]string `json:"values"`
}

type importRowsRequest struct {
	Headers []string `json:"headers"`
	Rows    []struct {
		EmployeeKey string            `json:"employeeKey"`
		Values      map[string]string `json:"values"`
	} `json:"rows"`
}

type batchResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	TenantID       string     `json:"tenantId"`
	State          string     `json:"state"`
	StateLabel     string     `json:"stateLabel"`
	EffectiveDate  *time.Time `json:"effectiveDate,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	AttributeKeys  []string   `json:"attributeKeys"`
	RowsTotal      int        `json:"rowsTotal"`
	RowsUsed       int        `json:"rowsUsed"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type rowResponse struct {
	ID           string            `json:"id"`
	EmployeeKey  string            `json:"employeeKey"`
	EmployeeName string            `json:"employeeName"`
	State        string            `json:"state"`
	ActivatedAt  *time.Time        `json:"activatedAt,omitempty"`
	Values       map[string]string `json:"values"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type batchDetailResponse struct {
	batchResponse
	Rows           []rowResponse     `json:"rows"`
	Labels         map[string]string `json:"labels"`
	ChangelogCount countsResponse    `json:"changelogCount"`
}

type countsResponse struct {
	Batch  int `json:"batch"`
	Record int `json:"record"`
}

type importResponse struct {
	Batch    batchResponse `json:"batch"`
	RowCount int           `json:"rowCount"`
}

type auditEntryResponse struct {
	ID             string    `json:"id"`
	Level          string    `json:"level"`
	Action         string    `json:"action"`
	RowID          *string   `json:"rowId,omitempty"`
	EmployeeKey    *string   `json:"employeeKey,omitempty"`
	FieldKey       *string   `json:"fieldKey,omitempty"`
	OldValue       string    `json:"oldValue,omitempty"`
	NewValue       string    `json:"newValue,omitempty"`
	Description    string    `json:"description"`
	IsAutomatic    bool      `json:"isAutomatic"`
	TriggerBatchID *string   `json:"triggerBatchId,omitempty"`
	ActorID        string    `json:"actorId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toBatchResponse(b *domain.Batch) batchResponse {
	keys := b.AttributeKeys
	if keys == nil {
		keys = []string{}
	}
	return batchResponse{
		ID:             b.ID.String(),
		Name:           b.Name,
		TenantID:       b.TenantID.String(),
		State:          string(b.State),
		StateLabel:     b.State.Label(),
		EffectiveDate:  b.EffectiveDate,
		ExpirationDate: b.ExpirationDate,
		AttributeKeys:  keys,
		RowsTotal:      b.Stats.Total,
		RowsUsed:       b.Stats.Used,
		CreatedBy:      b.CreatedBy.String(),
		CreatedAt:      b.CreatedAt,
	}
}

func toRowResponse(row *domain.ValueRow) rowResponse {
	values := row.Values
	if values == nil {
		values = map[string]string{}
	}
	return rowResponse{
		ID:           row.ID.String(),
		EmployeeKey:  row.EmployeeKey,
		EmployeeName: row.EmployeeName,
		State:        string(row.State),
		ActivatedAt:  row.ActivatedAt,
		Values:       values,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toAuditEntryResponse(e *domain.AuditEntry) auditEntryResponse {
	resp := auditEntryResponse{
		ID:          e.ID.String(),
		Level:       string(e.Level),
		Action:      string(e.Action),
		EmployeeKey: e.EmployeeKey,
		FieldKey:    e.FieldKey,
		OldValue:    e.OldValue,
		NewValue:    e.NewValue,
		Description: e.Description,
		IsAutomatic: e.IsAutomatic,
		ActorID:     e.ActorID.String(),
		CreatedAt:   e.CreatedAt,
	}
	if e.RowID != nil {
		s := e.RowID.String()
		resp.RowID = &s
	}
	if e.TriggerBatchID != nil {
		s := e.TriggerBatchID.String()
		resp.TriggerBatchID = &s
	}
	return resp
}

// Create handles POST /batches.
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenantId")
		return
	}

	b, err := h.svc.Create(r.Context(), batch.CreateInput{TenantID: tenantID, Name: req.Name})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBatchResponse(b))
}

// List handles GET /batches?tenant_id=.
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant_id")
		return
	}

	batches, err := h.svc.List(r.Context(), tenantID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	out := make([]batchResponse, len(batches))
	for i, b := range batches {
		out[i] = toBatchResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /batches/{id}.
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := batchDetailResponse{
		batchResponse: toBatchResponse(detail.Batch),
		Rows:          make([]rowResponse, len(detail.Rows)),
		Labels:        detail.Labels,
		ChangelogCount: countsResponse{
			Batch:  detail.Counts.Batch,
			Record: detail.Counts.Record,
		},
	}
	for i, row := range detail.Rows {
		resp.Rows[i] = toRowResponse(row)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Rename handles PATCH /batches/{id}.
func (h *BatchHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req renameBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.svc.Rename(r.Context(), batch.RenameInput{BatchID: id, Name: req.Name})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponse(b))
}

// Delete handles DELETE /batches/{id}.
func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /batches/{id}/import. The workbook comes as the
// multipart form field "file".
func (h *BatchHandler) Import(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	sheet, err := h.sheets.Parse(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Import(r.Context(), batch.ImportInput{
		BatchID: id,
		Headers: sheet.Headers,
		Rows:    sheet.Rows,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{
		Batch:    toBatchResponse(result.Batch),
		RowCount: result.RowCount,
	})
}

// ImportRows handles POST /batches/{id}/rows, the JSON alternative to the
// spreadsheet upload. Row positions stand in for sheet lines in error
// reports.
func (h *BatchHandler) ImportRows(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req importRowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rows := make([]domain.ImportRow, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = domain.ImportRow{
			Line:        i + 1,
			EmployeeKey: row.EmployeeKey,
			Values:      row.Values,
		}
	}

	result, err := h.svc.Import(r.Context(), batch.ImportInput{
		BatchID: id,
		Headers: req.Headers,
		Rows:    rows,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{
		Batch:    toBatchResponse(result.Batch),
		RowCount: result.RowCount,
	})
}

// Approve handles POST /batches/{id}/approve.
func (h *BatchHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.svc.Approve(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponse(b))
}

// End handles POST /batches/{id}/end.
func (h *BatchHandler) End(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.svc.End(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponse(b))
}

// UpdateRow handles PATCH /batches/{id}/rows/{rowId}.
func (h *BatchHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	rowID, ok := pathUUID(w, r, "rowId")
	if !ok {
		return
	}
	var req updateRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.svc.UpdateRow(r.Context(), batch.UpdateRowInput{
		BatchID: id,
		RowID:   rowID,
		Values:  req.Values,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toRowResponse(row))
}

// Changelog handles GET /batches/{id}/changelog?level=batch|record.
func (h *BatchHandler) Changelog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var level *domain.AuditLevel
	if raw := r.URL.Query().Get("level"); raw != "" {
		l := domain.AuditLevel(raw)
		level = &l
	}

	entries, err := h.svc.Changelog(r.Context(), id, level)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	out := make([]auditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = toAuditEntryResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}
