package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/stop-insights/internal/middleware"
)

// newLoggedRouter mounts a single route behind RequestID and the slog logger,
// mirroring the production middleware order.
func newLoggedRouter(buf *bytes.Buffer, status int) http.Handler {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewSlogLogger(logger))
	r.Get("/stops/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("hello"))
	})
	return r
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

// TestSlogLogger_logsRequestFields verifies that one JSON line is written
// with the request's method, path, route pattern, status, size and ID.
func TestSlogLogger_logsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	h := newLoggedRouter(&buf, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/stops/42", nil)
	req.Header.Set("X-Request-Id", "test-req-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	entry := decodeLogLine(t, &buf)
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "GET", entry["method"])
	require.Equal(t, "/stops/42", entry["path"])
	require.Equal(t, "/stops/{id}", entry["route"])
	require.EqualValues(t, http.StatusOK, entry["status"])
	require.EqualValues(t, 5, entry["bytes"])
	require.Equal(t, "test-req-id", entry["request_id"])
	require.NotNil(t, entry["duration_ms"])
}

func TestSlogLogger_serverErrorLoggedAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	h := newLoggedRouter(&buf, http.StatusInternalServerError)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stops/1", nil))

	entry := decodeLogLine(t, &buf)
	require.Equal(t, "ERROR", entry["level"])
	require.EqualValues(t, http.StatusInternalServerError, entry["status"])
}
