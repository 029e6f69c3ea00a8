package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crashmonitor/server/internal/config"
	"github.com/stretchr/testify/require"
)

func TestRateLimitAllowsWithinBudget(t *testing.T) {
	cfg := config.RateLimitConfig{IngestPerMinute: 60, PublicPerMinute: 60}
	handler := RateLimit(cfg, TierIngest, "test")(okHandler())

	r := httptest.NewRequest("POST", "/events", nil)
	r.RemoteAddr = "10.1.2.3:40000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitRejectsBurst(t *testing.T) {
	cfg := config.RateLimitConfig{IngestPerMinute: 2, PublicPerMinute: 2}
	handler := RateLimit(cfg, TierIngest, "test")(okHandler())

	var last int
	for i := 0; i < 5; i++ {
		r := httptest.NewRequest("POST", "/events", nil)
		r.RemoteAddr = "10.1.2.3:40000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		last = w.Code
	}

	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestRateLimitSeparatesClients(t *testing.T) {
	cfg := config.RateLimitConfig{IngestPerMinute: 1, PublicPerMinute: 1}
	handler := RateLimit(cfg, TierIngest, "test")(okHandler())

	first := httptest.NewRequest("POST", "/events", nil)
	first.RemoteAddr = "10.1.2.3:40000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	require.Equal(t, http.StatusOK, w.Code)

	second := httptest.NewRequest("POST", "/events", nil)
	second.RemoteAddr = "10.9.9.9:40000"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, second)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitDisabledWhenZero(t *testing.T) {
	cfg := config.RateLimitConfig{IngestPerMinute: 0, PublicPerMinute: 0}
	handler := RateLimit(cfg, TierIngest, "test")(okHandler())

	for i := 0; i < 10; i++ {
		r := httptest.NewRequest("POST", "/events", nil)
		r.RemoteAddr = "10.1.2.3:40000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
	}
}
