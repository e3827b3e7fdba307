package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"
)

// Verifier validates a raw bearer token and returns its user id.
type Verifier interface {
	Verify(token string) (int64, error)
}

// Gate resolves the caller of a request from its optional bearer token.
type Gate struct {
	tokens Verifier
}

// NewGate creates a Gate backed by tokens.
func NewGate(tokens Verifier) *Gate {
	return &Gate{tokens: tokens}
}

// Resolve reads the Authorization header. A missing header is Anonymous; a
// header whose token fails verification is an error.
func (g *Gate) Resolve(h http.Header) (Identity, error) {
	return g.ResolveToken(h.Get("Authorization"))
}

// ResolveToken applies the Resolve rules to a raw credential, with or without
// the "Bearer " prefix.
func (g *Gate) ResolveToken(raw string) (Identity, error) {
	token := strings.TrimSpace(raw)
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Anonymous, nil
	}

	userID, err := g.tokens.Verify(token)
	if err != nil {
		return Anonymous, err
	}
	return User(userID), nil
}

// Middleware stores the resolved Identity in the request context. Requests
// carrying a bad token are answered with 401 and never reach next.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := g.Resolve(r.Header)
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}
