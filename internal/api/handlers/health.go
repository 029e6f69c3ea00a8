package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceName = "crash-monitor-api"

type rootResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Root is a lightweight smoke-test endpoint identifying the service.
func Root() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rootResponse{Status: "ok", Service: serviceName})
	})
}

// Health reports process liveness. It deliberately touches no dependencies
// so an unhealthy database never makes the process look dead.
func Health() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
	})
}

// Readyz reports readiness to serve traffic by pinging the database pool.
func Readyz(pool *pgxpool.Pool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if pool == nil {
			writeReadiness(w, http.StatusServiceUnavailable, "unavailable", "database pool not initialized")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			writeReadiness(w, http.StatusServiceUnavailable, "unavailable", err.Error())
			return
		}

		writeReadiness(w, http.StatusOK, "ready", "")
	})
}

type readinessResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func writeReadiness(w http.ResponseWriter, status int, value string, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(readinessResponse{Status: value, Reason: reason})
}
