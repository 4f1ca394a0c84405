package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
	"github.com/nkhrm/salary-policy-backend/internal/service/registry"
)

// registryService defines the minimal interface needed by AttributeHandler.
type registryService interface {
	Define(ctx context.Context, input registry.DefineInput) (*domain.AttributeDefinition, error)
	Rename(ctx context.Context, input registry.RenameInput) (*domain.AttributeDefinition, error)
	Delete(ctx context.Context, input registry.DeleteInput) error
	List(ctx context.Context) ([]*domain.AttributeDefinition, error)
	EffectiveFor(ctx context.Context, tenantID uuid.UUID) ([]*domain.AttributeDefinition, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.AttributeDefinition, error)
}

// AttributeHandler serves the attribute registry REST endpoints.
type AttributeHandler struct {
	svc registryService
	log *slog.Logger
}

// NewAttributeHandler creates an AttributeHandler.
func NewAttributeHandler(svc registryService, logger *slog.Logger) *AttributeHandler {
	return &AttributeHandler{svc: svc, log: logger.With("handler", "attributes")}
}

type defineAttributeRequest struct {
	DisplayLabel     string   `json:"displayLabel"`
	DataType         string   `json:"dataType"`
	TenantIDs        []string `json:"tenantIds,omitempty"`
	RequiredOnImport bool     `json:"requiredOnImport"`
}

type renameAttributeRequest struct {
	DisplayLabel string `json:"displayLabel"`
}

type attributeResponse struct {
	ID               string    `json:"id"`
	DisplayLabel     string    `json:"displayLabel"`
	TechnicalKey     string    `json:"technicalKey"`
	DataType         string    `json:"dataType"`
	TenantIDs        []string  `json:"tenantIds,omitempty"`
	RequiredOnImport bool      `json:"requiredOnImport"`
	Materialized     bool      `json:"materialized"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toAttributeResponse(def *domain.AttributeDefinition) attributeResponse {
	resp := attributeResponse{
		ID:               def.ID.String(),
		DisplayLabel:     def.DisplayLabel,
		TechnicalKey:     def.TechnicalKey,
		DataType:         string(def.DataType),
		RequiredOnImport: def.RequiredOnImport,
		Materialized:     def.Materialized,
		CreatedAt:        def.CreatedAt,
	}
	for _, tid := range def.TenantIDs {
		resp.TenantIDs = append(resp.TenantIDs, tid.String())
	}
	return resp
}

func toAttributeResponses(defs []*domain.AttributeDefinition) []attributeResponse {
	out := make([]attributeResponse, len(defs))
	for i, def := range defs {
		out[i] = toAttributeResponse(def)
	}
	return out
}

// Define handles POST /attributes.
func (h *AttributeHandler) Define(w http.ResponseWriter, r *http.Request) {
	var req defineAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := registry.DefineInput{
		DisplayLabel:     req.DisplayLabel,
		DataType:         domain.AttributeType(req.DataType),
		RequiredOnImport: req.RequiredOnImport,
	}
	for _, raw := range req.TenantIDs {
		tid, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid tenant id: "+raw)
			return
		}
		input.TenantIDs = append(input.TenantIDs, tid)
	}

	def, err := h.svc.Define(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAttributeResponse(def))
}

// List handles GET /attributes. With ?tenant_id= it returns the tenant's
// effective definitions; without it, the full catalog (admin only).
func (h *AttributeHandler) List(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("tenant_id"); raw != "" {
		tenantID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid tenant_id")
			return
		}
		defs, err := h.svc.EffectiveFor(r.Context(), tenantID)
		if err != nil {
			handleError(w, r, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttributeResponses(defs))
		return
	}

	defs, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttributeResponses(defs))
}

// Get handles GET /attributes/{id}.
func (h *AttributeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	def, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttributeResponse(def))
}

// Rename handles PATCH /attributes/{id}.
func (h *AttributeHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req renameAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	def, err := h.svc.Rename(r.Context(), registry.RenameInput{ID: id, DisplayLabel: req.DisplayLabel})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttributeResponse(def))
}

// Delete handles DELETE /attributes/{id}.
func (h *AttributeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), registry.DeleteInput{ID: id}); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathUUID parses a UUID path value, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
