package handlers

import (
	"net/http"

	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/services"
)

// StatsHandler serves task statistics.
type StatsHandler struct {
	service services.StatsServiceProvider
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service services.StatsServiceProvider) *StatsHandler {
	return &StatsHandler{service: service}
}

// Get returns the caller's task counts and completion rate.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.ComputeStats(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
