package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// projectionService defines the minimal interface needed by ProjectionHandler.
type projectionService interface {
	Get(ctx context.Context, batchID uuid.UUID) (*domain.Projection, error)
	Regenerate(ctx context.Context, batchID uuid.UUID) (*domain.Projection, error)
}

// ProjectionHandler serves the generated view layouts.
type ProjectionHandler struct {
	svc projectionService
	log *slog.Logger
}

// NewProjectionHandler creates a ProjectionHandler.
func NewProjectionHandler(svc projectionService, logger *slog.Logger) *ProjectionHandler {
	return &ProjectionHandler{svc: svc, log: logger.With("handler", "projections")}
}

type projectionResponse struct {
	ID          string                     `json:"id"`
	BatchID     string                     `json:"batchId"`
	GeneratedAt time.Time                  `json:"generatedAt"`
	Columns     []projectionColumnResponse `json:"columns"`
}

type projectionColumnResponse struct {
	Position        int    `json:"position"`
	FieldKey        string `json:"fieldKey"`
	Label           string `json:"label"`
	DataType        string `json:"dataType"`
	NullSafeNumeric bool   `json:"nullSafeNumeric"`
}

// Get handles GET /batches/{id}/projection.
func (h *ProjectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionResponse(p))
}

// Regenerate handles POST /batches/{id}/projection.
func (h *ProjectionHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.Regenerate(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionResponse(p))
}

func toProjectionResponse(p *domain.Projection) projectionResponse {
	resp := projectionResponse{
		ID:          p.ID.String(),
		BatchID:     p.BatchID.String(),
		GeneratedAt: p.GeneratedAt,
		Columns:     make([]projectionColumnResponse, len(p.Columns)),
	}
	for i, col := range p.Columns {
		resp.Columns[i] = projectionColumnResponse{
			Position:        col.Position,
			FieldKey:        col.FieldKey,
			Label:           col.Label,
			DataType:        string(col.DataType),
			NullSafeNumeric: col.NullSafeNumeric,
		}
	}
	return resp
}
