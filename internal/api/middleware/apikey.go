package middleware

import (
	"errors"
	"net/http"

	"github.com/crashmonitor/server/internal/api/problem"
	"github.com/crashmonitor/server/internal/auth"
)

// RequireAPIKey gates mutating endpoints behind the configured gatekeeper.
// A missing server-side secret while enforcement is active is a server
// error, never an open door.
func RequireAPIKey(gate *auth.Gatekeeper, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := gate.VerifyRequest(r)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			if errors.Is(err, auth.ErrNotConfigured) {
				problem.Write(w, r, http.StatusInternalServerError,
					"https://crash-monitor.dev/problems/misconfigured", "Server misconfiguration", err, env)
				return
			}

			problem.Write(w, r, http.StatusUnauthorized,
				"https://crash-monitor.dev/problems/unauthorized", "Unauthorized", err, env)
		})
	}
}
