package events

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFiltersDefaults(t *testing.T) {
	filters, pagination := ParseFilters(url.Values{})

	require.Empty(t, filters.AppID)
	require.Empty(t, filters.Level)
	require.Empty(t, filters.EventType)
	require.Equal(t, DefaultLimit, pagination.Limit)
	require.Equal(t, 0, pagination.Skip)
}

func TestParseFiltersTrimsFields(t *testing.T) {
	values := url.Values{}
	values.Set("app_id", "  demo-app  ")
	values.Set("level", " error ")
	values.Set("event_type", " crash ")

	filters, _ := ParseFilters(values)

	require.Equal(t, "demo-app", filters.AppID)
	require.Equal(t, "error", filters.Level)
	require.Equal(t, "crash", filters.EventType)
}

func TestParseFiltersLimitClamping(t *testing.T) {
	cases := map[string]int{
		"":    DefaultLimit,
		"0":   DefaultLimit,
		"-3":  DefaultLimit,
		"abc": DefaultLimit,
		"999": MaxLimit,
		"200": MaxLimit,
		"1":   1,
		"25":  25,
	}

	for raw, want := range cases {
		values := url.Values{}
		if raw != "" {
			values.Set("limit", raw)
		}
		_, pagination := ParseFilters(values)
		require.Equal(t, want, pagination.Limit, "limit=%q", raw)
	}
}

func TestParseFiltersSkipClamping(t *testing.T) {
	cases := map[string]int{
		"":    0,
		"-5":  0,
		"abc": 0,
		"0":   0,
		"120": 120,
	}

	for raw, want := range cases {
		values := url.Values{}
		if raw != "" {
			values.Set("skip", raw)
		}
		_, pagination := ParseFilters(values)
		require.Equal(t, want, pagination.Skip, "skip=%q", raw)
	}
}
