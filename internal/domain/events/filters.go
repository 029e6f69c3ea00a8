package events

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Filters holds the optional equality clauses of a listing query. Empty
// fields are omitted from the query, never matched as empty strings.
type Filters struct {
	AppID     string
	Level     string
	EventType string
}

// Pagination bounds a listing query. Limit is always within [1, MaxLimit]
// and Skip is never negative.
type Pagination struct {
	Limit int
	Skip  int
}

// ParseFilters builds Filters and Pagination from request query parameters.
// Pagination inputs are hints rather than a strict contract: caller tooling
// passes loosely-typed values, so out-of-range or non-numeric limit/skip fall
// back to defaults instead of erroring.
func ParseFilters(values url.Values) (Filters, Pagination) {
	filters := Filters{
		AppID:     strings.TrimSpace(values.Get("app_id")),
		Level:     strings.TrimSpace(values.Get("level")),
		EventType: strings.TrimSpace(values.Get("event_type")),
	}

	pagination := Pagination{
		Limit: parseLimit(values.Get("limit")),
		Skip:  parseSkip(values.Get("skip")),
	}

	return filters, pagination
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return DefaultLimit
	}
	if parsed > MaxLimit {
		return MaxLimit
	}
	return parsed
}

func parseSkip(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
