package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/stop-insights/internal/domain"
)

func dashboardDataset() *mockDataset {
	d := datasetWith(stopFixture())
	d.summary = func(_ context.Context) (domain.Summary, error) {
		return domain.Summary{TotalRecords: 1, Searches: 1}, nil
	}
	d.violationCounts = func(_ context.Context) ([]domain.CategoryCount, error) {
		return []domain.CategoryCount{{Label: "Speeding", Count: 4}, {Label: "Seatbelt", Count: 2}}, nil
	}
	return d
}

func narrativesFor(d *mockDataset) *mockNarratives {
	return &mockNarratives{
		forRecord: func(ctx context.Context, id int64) (domain.TrafficStop, string, error) {
			stop, err := d.findByID(ctx, id)
			if err != nil {
				return domain.TrafficStop{}, "", err
			}
			return stop, "The stop lasted 16-30 Min.", nil
		},
	}
}

func getDashboard(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	d := dashboardDataset()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(d, insightsFixture(), narrativesFor(d)).ServeHTTP(rec, req)
	return rec
}

func TestGetDashboard_200_RendersSections(t *testing.T) {
	rec := getDashboard(t, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "Key Metrics")
	assert.Contains(t, body, "width: 100%")
	assert.Contains(t, body, "width: 50%")
	assert.Contains(t, body, "<option>Total number of vehicle stops</option>")
	assert.Contains(t, body, "TN12AB7890")
	assert.NotContains(t, body, "Insight for:")
}

func TestGetDashboard_RunsSelectedQuestion(t *testing.T) {
	rec := getDashboard(t, "/?question=Count+of+stops+by+time+of+day+%28Night+vs+Day%29")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Insight for:")
	assert.Contains(t, body, "<th>period</th>")
	assert.Contains(t, body, "<td>Night</td>")
	assert.Contains(t, body, "<option selected>Count of stops by time of day (Night vs Day)</option>")
}

func TestGetDashboard_UnknownQuestion(t *testing.T) {
	rec := getDashboard(t, "/?question=DROP+TABLE")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "That question is not in the catalog.")
}

func TestGetDashboard_Lookup(t *testing.T) {
	rec := getDashboard(t, "/?id=7")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The stop lasted 16-30 Min.")
	assert.Contains(t, body, "<th>vehicle_number</th><td>TN12AB7890</td>")
}

func TestGetDashboard_LookupErrors(t *testing.T) {
	tests := map[string]string{
		"/?id=99":  "ID not found.",
		"/?id=0":   "ID must be a positive whole number.",
		"/?id=abc": "ID must be a positive whole number.",
	}
	for target, want := range tests {
		t.Run(target, func(t *testing.T) {
			rec := getDashboard(t, target)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), want)
		})
	}
}

func TestGetDashboard_503_DatabaseUnavailable(t *testing.T) {
	d := &mockDataset{
		records: func(_ context.Context) ([]domain.TrafficStop, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(d, insightsFixture(), nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "database is unreachable")
	assert.NotContains(t, body, "connection refused")
}
