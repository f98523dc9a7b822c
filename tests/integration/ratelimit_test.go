package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"spookTrailsAPI/middleware"
)

func limitedRequest(handler http.Handler, path, ip string) int {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = ip + ":40000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimiterThrottlesClaimsHarder(t *testing.T) {
	handler := middleware.RateLimitMiddleware(okHandler())

	// The claim budget allows a small burst, then rejects.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, limitedRequest(handler, "/api/v1/quests/salem/claim", "10.9.0.1"), "claim %d within burst", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(handler, "/api/v1/quests/salem/claim", "10.9.0.1"))

	// The same IP's browse budget is independent and far larger.
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, limitedRequest(handler, "/api/v1/quests", "10.9.0.1"), "browse %d within burst", i+1)
	}
}

func TestRateLimiterIsPerIP(t *testing.T) {
	handler := middleware.RateLimitMiddleware(okHandler())

	for i := 0; i < 3; i++ {
		limitedRequest(handler, "/api/v1/quests/salem/claim", "10.9.0.2")
	}
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(handler, "/api/v1/quests/salem/claim", "10.9.0.2"))

	// A different client still has its full claim budget.
	assert.Equal(t, http.StatusOK, limitedRequest(handler, "/api/v1/quests/salem/claim", "10.9.0.3"))
}
