package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/services"
	"github.com/rs/zerolog/hlog"
)

// errorStatus maps service error kinds to HTTP status codes. Anything not
// listed is an internal error.
var errorStatus = []struct {
	kind   error
	status int
}{
	{services.ErrValidation, http.StatusBadRequest},
	{services.ErrDuplicateEmail, http.StatusBadRequest},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrInvalidToken, http.StatusUnauthorized},
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrRejected, http.StatusUnauthorized},
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.kind) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondError writes {message} with the status of err's kind. Internal
// errors echo the underlying message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	logger := hlog.FromRequest(r)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondMessage(w, status, "Internal error: "+err.Error())
		return
	}
	logger.Debug().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("Request rejected")
	respondMessage(w, status, err.Error())
}

// decodeJSON decodes the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// taskIDParam parses the {id} URL parameter. Non-numeric ids are reported as
// a missing task.
func taskIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}
