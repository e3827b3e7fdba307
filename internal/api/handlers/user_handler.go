package handlers

import (
	"net/http"

	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/models"
	"github.com/isdelr/life-planner-be/internal/services"
	"github.com/rs/zerolog/hlog"
)

// UserHandler handles registration, login and the current account.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	IsPro bool   `json:"is_pro"`
}

type authResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    userView `json:"user"`
}

func viewOf(u models.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, IsPro: u.IsPro}
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.service.Register(r.Context(), payload.Email, payload.Password, payload.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Int64("user_id", user.ID).Msg("User registered")
	respondJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully",
		Token:   token,
		User:    viewOf(user),
	})
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Failed authentication attempt")
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    viewOf(user),
	})
}

// Me returns the account behind the bearer token.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.IdentityFrom(r.Context()).UserID()
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Login required")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
