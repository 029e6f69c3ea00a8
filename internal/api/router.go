package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/crashmonitor/server/internal/api/handlers"
	"github.com/crashmonitor/server/internal/api/middleware"
	"github.com/crashmonitor/server/internal/auth"
	"github.com/crashmonitor/server/internal/config"
	"github.com/crashmonitor/server/internal/domain/events"
	"github.com/crashmonitor/server/internal/metrics"
	"github.com/crashmonitor/server/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewRouter wires the HTTP surface. Reads are public; only event ingestion
// sits behind the API key gate, the ingest rate tier, and the body size cap.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool) http.Handler {
	repo := postgres.NewEventRepository(pool)
	service := events.NewService(repo, logger)

	eventsHandler := handlers.NewEventsHandler(service, cfg.Environment)
	gate := auth.NewGatekeeper(cfg.Auth.APIKey, cfg.Auth.Require)

	requireKey := middleware.RequireAPIKey(gate, cfg.Environment)
	ingestLimit := middleware.RateLimit(cfg.RateLimit, middleware.TierIngest, cfg.Environment)
	publicLimit := middleware.RateLimit(cfg.RateLimit, middleware.TierPublic, cfg.Environment)
	ingestSize := middleware.IngestRequestSize()

	listEvents := publicLimit(http.HandlerFunc(eventsHandler.List))
	createEvents := requireKey(ingestLimit(ingestSize(http.HandlerFunc(eventsHandler.Create))))

	mux := http.NewServeMux()
	mux.Handle("/{$}", handlers.Root())
	mux.Handle("/health", handlers.Health())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/events", metrics.HTTPMiddleware("/events")(methodMux(map[string]http.Handler{
		http.MethodGet:  listEvents,
		http.MethodPost: createEvents,
	})))
	mux.Handle("/events/{id}", metrics.HTTPMiddleware("/events/{id}")(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.Get),
	})))

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := routes[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(routes))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(routes map[string]http.Handler) string {
	methods := make([]string, 0, len(routes))
	for method := range routes {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
