package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
)

func TestRateLimiterIsPerClientAndForgetsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(0.001, 1)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"))

	now = now.Add(idleLimiterTTL + time.Second)
	assert.True(t, rl.allow("10.0.0.1"))
	rl.mu.Lock()
	assert.Len(t, rl.visitors, 1)
	rl.mu.Unlock()
}

func TestRateLimiterSweepsAtMostOncePerTTL(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	swept := rl.swept
	assert.Equal(t, now, swept)

	// 10.0.0.1 goes idle, but the previous sweep is too recent to run another.
	now = now.Add(idleLimiterTTL - time.Minute)
	assert.True(t, rl.allow("10.0.0.2"))
	assert.Equal(t, swept, rl.swept)

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.allow("10.0.0.2"))
	assert.Equal(t, now, rl.swept)
	rl.mu.Lock()
	_, kept := rl.visitors["10.0.0.1"]
	rl.mu.Unlock()
	assert.False(t, kept)
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "203.0.113.7:50000"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestAuthStoresClaimsForRoleGuard(t *testing.T) {
	tokens := token.NewService("mw-secret", time.Hour, time.Hour)
	staff, err := tokens.IssueStaff("9000000002", "cafe-1")
	require.NoError(t, err)

	var seen *token.Claims
	h := Chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
	}), AuthMiddleware(tokens), RequireRole(token.RoleStaff))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+staff)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "cafe-1", seen.CafeID)

	req.Header.Set("Authorization", "Basic abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
