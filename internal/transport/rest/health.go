package rest

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 3 * time.Second

// dbPinger is the slice of the connection pool health checks need.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db      dbPinger
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// HealthResponse is the JSON body of every probe endpoint.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentStatus `json:"components,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
}

// ComponentStatus reports one dependency's state.
type ComponentStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live answers the liveness probe. It never touches dependencies.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready answers the readiness probe: 200 when the database responds to a
// ping within the timeout, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.pingDB(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "down", Timestamp: time.Now()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Health reports the full picture: version plus per-component status with
// measured latency.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:     "ok",
		Version:    h.version,
		Components: map[string]ComponentStatus{},
		Timestamp:  time.Now(),
	}
	status := http.StatusOK

	latency, err := h.pingDB(r.Context())
	if err != nil {
		resp.Status = "down"
		resp.Components["database"] = ComponentStatus{Status: "down"}
		status = http.StatusServiceUnavailable
	} else {
		resp.Components["database"] = ComponentStatus{Status: "ok", Latency: latency.String()}
	}

	writeJSON(w, status, resp)
}

func (h *HealthHandler) pingDB(ctx context.Context) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	return time.Since(start), err
}
