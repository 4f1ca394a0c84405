package rest

import "net/http"

// Handlers groups everything the router mounts.
type Handlers struct {
	Health      *HealthHandler
	Attributes  *AttributeHandler
	Batches     *BatchHandler
	Projections *ProjectionHandler
}

// NewRouter builds the API mux. Middleware is applied by the caller so
// tests can mount handlers bare.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /attributes", h.Attributes.Define)
	mux.HandleFunc("GET /attributes", h.Attributes.List)
	mux.HandleFunc("GET /attributes/{id}", h.Attributes.Get)
	mux.HandleFunc("PATCH /attributes/{id}", h.Attributes.Rename)
	mux.HandleFunc("DELETE /attributes/{id}", h.Attributes.Delete)

	mux.HandleFunc("POST /batches", h.Batches.Create)
	mux.HandleFunc("GET /batches", h.Batches.List)
	mux.HandleFunc("GET /batches/{id}", h.Batches.Get)
	mux.HandleFunc("PATCH /batches/{id}", h.Batches.Rename)
	mux.HandleFunc("DELETE /batches/{id}", h.Batches.Delete)
	mux.HandleFunc("POST /batches/{id}/import", h.Batches.Import)
	mux.HandleFunc("POST /batches/{id}/rows", h.Batches.ImportRows)
	mux.HandleFunc("POST /batches/{id}/approve", h.Batches.Approve)
	mux.HandleFunc("POST /batches/{id}/end", h.Batches.End)
	mux.HandleFunc("PATCH /batches/{id}/rows/{rowId}", h.Batches.UpdateRow)
	mux.HandleFunc("GET /batches/{id}/changelog", h.Batches.Changelog)
	mux.HandleFunc("GET /batches/{id}/projection", h.Projections.Get)
	mux.HandleFunc("POST /batches/{id}/projection", h.Projections.Regenerate)

	return mux
}
