package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_ThrottlesPerIP(t *testing.T) {
	rejected := 0
	rl := NewRateLimiter(1, 1).OnReject(func() { rejected++ })
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:2000"), "same host on another port shares the limiter")
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000"))
	assert.Equal(t, 1, rejected)
}

func TestRateLimiter_CleanupResetsLimiters(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	_ = rl.getLimiter("10.0.0.1")

	rl.CleanupLimiters()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Empty(t, rl.limiters)
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4321"
	assert.Equal(t, "192.168.1.5", getIP(req))

	req.Header.Set("X-Real-IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", getIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getIP(req))
}
