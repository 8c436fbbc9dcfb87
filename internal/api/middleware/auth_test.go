package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/botfarm/internal/core"
	"github.com/edvin/botfarm/internal/model"
)

func TestAuth_ValidToken(t *testing.T) {
	svc := core.NewAuthService(nil, "test-secret", "botfarm")
	token, err := svc.IssueToken(&model.User{ID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)

	var captured *model.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetIdentity(r.Context())
	})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bots", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	Auth(svc)(next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-1", captured.UserID)
}

func TestAuth_MissingHeader(t *testing.T) {
	svc := core.NewAuthService(nil, "test-secret", "botfarm")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bots", nil)

	Auth(svc)(next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_WrongScheme(t *testing.T) {
	svc := core.NewAuthService(nil, "test-secret", "botfarm")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bots", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	Auth(svc)(next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_BadToken(t *testing.T) {
	svc := core.NewAuthService(nil, "test-secret", "botfarm")
	other := core.NewAuthService(nil, "other-secret", "botfarm")
	token, err := other.IssueToken(&model.User{ID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bots", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	Auth(svc)(next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
