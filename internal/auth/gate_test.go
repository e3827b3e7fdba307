package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier map[string]int64

func (f fakeVerifier) Verify(token string) (int64, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return 0, ErrInvalidToken
}

func TestGateResolve(t *testing.T) {
	t.Parallel()

	gate := NewGate(fakeVerifier{"good": 5})

	tests := []struct {
		name    string
		header  string
		want    Identity
		wantErr bool
	}{
		{name: "no header", header: "", want: Anonymous},
		{name: "blank header", header: "   ", want: Anonymous},
		{name: "bearer token", header: "Bearer good", want: User(5)},
		{name: "raw token", header: "good", want: User(5)},
		{name: "unknown token", header: "Bearer nope", wantErr: true},
		{name: "bearer without token", header: "Bearer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			got, err := gate.Resolve(h)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidToken))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGateMiddleware(t *testing.T) {
	t.Parallel()

	gate := NewGate(fakeVerifier{"good": 5})
	var seen Identity
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("anonymous passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, seen.IsAnonymous())
	})

	t.Run("valid token attaches user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		id, ok := seen.UserID()
		assert.True(t, ok)
		assert.Equal(t, int64(5), id)
	})

	t.Run("bad token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer forged")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Invalid token", body["message"])
	})
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	assert.True(t, Anonymous.IsAnonymous())
	assert.Nil(t, Anonymous.Owner())
	assert.Equal(t, "anon", Anonymous.Key())

	u := User(12)
	assert.False(t, u.IsAnonymous())
	require.NotNil(t, u.Owner())
	assert.Equal(t, int64(12), *u.Owner())
	assert.Equal(t, "user:12", u.Key())

	assert.Equal(t, Anonymous, IdentityFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
