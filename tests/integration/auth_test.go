package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"spookTrailsAPI/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	handler := middleware.ClerkAuthMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quests/salem/start", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	handler := middleware.ClerkAuthMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quests/salem/start", nil)
	req.Header.Set("Authorization", "token-without-bearer-prefix")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	handler := middleware.ClerkAuthMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quests/salem/start", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestOptionalAuthMiddleware_NoTokenPassesThrough(t *testing.T) {
	var sawIdentity bool
	handler := middleware.OptionalAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawIdentity = middleware.GetClerkID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quests", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "browse endpoints serve unauthenticated requests")
	assert.False(t, sawIdentity, "no subject attached without a token")
}

func TestOptionalAuthMiddleware_BadTokenPassesThrough(t *testing.T) {
	var sawIdentity bool
	handler := middleware.OptionalAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawIdentity = middleware.GetClerkID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quests", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, sawIdentity)
}
