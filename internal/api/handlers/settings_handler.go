package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/models"
	"github.com/isdelr/life-planner-be/internal/services"
)

// SettingsHandler handles the caller's preferences.
type SettingsHandler struct {
	service services.SettingsServiceProvider
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service services.SettingsServiceProvider) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get returns the caller's settings, or the defaults.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// Update saves the caller's settings. Anonymous callers are refused.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var input models.SettingsInput
	var raw json.RawMessage
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &input); err != nil {
			respondMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		raw = trimmed
	}

	if err := h.service.SaveSettings(r.Context(), auth.IdentityFrom(r.Context()), input, raw); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Settings saved successfully")
}
