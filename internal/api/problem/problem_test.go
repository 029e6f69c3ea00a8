package problem

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteSetsContentTypeAndStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/events/nope", nil)

	Write(w, r, 404, "https://crash-monitor.dev/problems/not-found", "Not found", errors.New("event not found"), "production")

	require.Equal(t, 404, w.Code)
	require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var details ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	require.Equal(t, 404, details.Status)
	require.Equal(t, "Not found", details.Title)
	require.Equal(t, "/events/nope", details.Instance)
}

func TestWriteHidesDetailOutsideDevelopment(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/events", nil)

	Write(w, r, 500, "https://crash-monitor.dev/problems/storage-error", "Storage error",
		errors.New("dial tcp 10.0.0.8:5432: connection refused"), "production")

	var details ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	require.Equal(t, "Internal Server Error", details.Detail)
	require.NotContains(t, details.Detail, "10.0.0.8")
}

func TestWriteExposesDetailInDevelopment(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/events", nil)

	Write(w, r, 422, "https://crash-monitor.dev/problems/validation-error", "Invalid event",
		errors.New("invalid app_id: must be a non-empty string"), "development")

	var details ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	require.Equal(t, "invalid app_id: must be a non-empty string", details.Detail)
}

func TestWriteWithErrorsMap(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/events", nil)

	Write(w, r, 422, "https://crash-monitor.dev/problems/validation-error", "Invalid event", nil, "production",
		WithErrors(map[string]interface{}{"app_id": "must be a non-empty string"}))

	var details ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	require.Equal(t, "must be a non-empty string", details.Errors["app_id"])
}
