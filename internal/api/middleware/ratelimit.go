package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/crashmonitor/server/internal/api/problem"
	"github.com/crashmonitor/server/internal/config"
	"golang.org/x/time/rate"
)

type RateLimitTier string

const (
	TierPublic RateLimitTier = "public"
	TierIngest RateLimitTier = "ingest"
)

// limiterStore keeps one token bucket per (tier, client) pair. Entries idle
// for an hour are evicted on the next sweep.
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	cfg      config.RateLimitConfig
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(cfg config.RateLimitConfig) *limiterStore {
	return &limiterStore{
		limiters: make(map[string]*limiterEntry),
		cfg:      cfg,
	}
}

func (s *limiterStore) limiter(tier RateLimitTier, clientKey string) *rate.Limiter {
	perMinute := s.cfg.PublicPerMinute
	if tier == TierIngest {
		perMinute = s.cfg.IngestPerMinute
	}
	if perMinute <= 0 {
		return nil
	}

	key := string(tier) + ":" + clientKey

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		}
		s.limiters[key] = entry
	}
	entry.lastSeen = time.Now()

	if len(s.limiters) > 10000 {
		s.sweepLocked()
	}
	return entry.limiter
}

func (s *limiterStore) sweepLocked() {
	cutoff := time.Now().Add(-time.Hour)
	for key, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, key)
		}
	}
}

// RateLimit applies a per-client token bucket for the given tier. Crash SDKs
// can flood after a bad release; the ingest tier bounds that without
// touching the read path's budget.
func RateLimit(cfg config.RateLimitConfig, tier RateLimitTier, env string) func(http.Handler) http.Handler {
	store := newLimiterStore(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := store.limiter(tier, clientKey(r))
			if limiter != nil && !limiter.Allow() {
				w.Header().Set("Retry-After", "60")
				problem.Write(w, r, http.StatusTooManyRequests,
					"https://crash-monitor.dev/problems/rate-limited", "Too many requests", nil, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
