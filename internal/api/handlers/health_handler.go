package handlers

import (
	"net/http"

	"github.com/isdelr/life-planner-be/internal/monitoring"
)

// HealthHandler reports liveness.
type HealthHandler struct {
	probe *monitoring.Probe
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(probe *monitoring.Probe) *HealthHandler {
	return &HealthHandler{probe: probe}
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	monitoring.Snapshot
}

// Get answers 200 while the process is serving.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:   "OK",
		Message:  "Life Planner API is running",
		Snapshot: h.probe.Snapshot(r.Context()),
	})
}
