package handlers

import "net/http"

// HealthHandlers exposes liveness endpoints for the load balancer.
type HealthHandlers struct{}

// NewHealthHandlers constructs a new HealthHandlers instance.
func NewHealthHandlers() *HealthHandlers {
	return &HealthHandlers{}
}

// Healthz reports process liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
