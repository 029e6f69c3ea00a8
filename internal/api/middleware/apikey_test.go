package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crashmonitor/server/internal/auth"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAPIKeyMissing(t *testing.T) {
	gate := auth.NewGatekeeper("s3cret", true)
	handler := RequireAPIKey(gate, "test")(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/events", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRequireAPIKeyWrong(t *testing.T) {
	gate := auth.NewGatekeeper("s3cret", true)
	handler := RequireAPIKey(gate, "test")(okHandler())

	r := httptest.NewRequest("POST", "/events", nil)
	r.Header.Set(auth.HeaderAPIKey, "wrong")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAPIKeyCorrect(t *testing.T) {
	gate := auth.NewGatekeeper("s3cret", true)
	handler := RequireAPIKey(gate, "test")(okHandler())

	r := httptest.NewRequest("POST", "/events", nil)
	r.Header.Set(auth.HeaderAPIKey, "s3cret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAPIKeyDisabled(t *testing.T) {
	gate := auth.NewGatekeeper("", false)
	handler := RequireAPIKey(gate, "test")(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/events", nil))

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAPIKeyMisconfigured(t *testing.T) {
	gate := auth.NewGatekeeper("", true)
	handler := RequireAPIKey(gate, "test")(okHandler())

	r := httptest.NewRequest("POST", "/events", nil)
	r.Header.Set(auth.HeaderAPIKey, "anything")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
