package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/stop-insights/internal/domain"
	"github.com/pkordes/stop-insights/internal/handler"
)

// mockDataset is a test double for handler.DatasetServicer.
// Set only the method fields your test needs.
type mockDataset struct {
	records         func(ctx context.Context) ([]domain.TrafficStop, error)
	findByID        func(ctx context.Context, id int64) (domain.TrafficStop, error)
	summary         func(ctx context.Context) (domain.Summary, error)
	violationCounts func(ctx context.Context) ([]domain.CategoryCount, error)
}

func (m *mockDataset) Records(ctx context.Context) ([]domain.TrafficStop, error) {
	return m.records(ctx)
}
func (m *mockDataset) FindByID(ctx context.Context, id int64) (domain.TrafficStop, error) {
	return m.findByID(ctx, id)
}
func (m *mockDataset) Summary(ctx context.Context) (domain.Summary, error) {
	return m.summary(ctx)
}
func (m *mockDataset) ViolationCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	return m.violationCounts(ctx)
}

var _ handler.DatasetServicer = (*mockDataset)(nil)

// mockInsights is a test double for handler.InsightServicer.
type mockInsights struct {
	questions func() []string
	run       func(ctx context.Context, question string) (domain.ResultTable, error)
}

func (m *mockInsights) Questions() []string { return m.questions() }
func (m *mockInsights) Run(ctx context.Context, question string) (domain.ResultTable, error) {
	return m.run(ctx, question)
}

var _ handler.InsightServicer = (*mockInsights)(nil)

// mockNarratives is a test double for handler.NarrativeServicer.
type mockNarratives struct {
	forRecord func(ctx context.Context, id int64) (domain.TrafficStop, string, error)
	forInput  func(stop domain.TrafficStop) string
}

func (m *mockNarratives) ForRecord(ctx context.Context, id int64) (domain.TrafficStop, string, error) {
	return m.forRecord(ctx, id)
}
func (m *mockNarratives) ForInput(stop domain.TrafficStop) string { return m.forInput(stop) }

var _ handler.NarrativeServicer = (*mockNarratives)(nil)

// newHTTPHandler wires a Server onto a fresh chi router.
func newHTTPHandler(d handler.DatasetServicer, i handler.InsightServicer, n handler.NarrativeServicer) http.Handler {
	r := chi.NewRouter()
	handler.NewServer(d, i, n).Register(r)
	return r
}

// jsonBody encodes v as a JSON request body.
func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func ptr[T any](v T) *T { return &v }

func stopFixture() domain.TrafficStop {
	date := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2020, 1, 15, 14, 30, 0, 0, time.UTC)
	clock := domain.ClockTime(14, 30, 0)
	return domain.TrafficStop{
		ID:               7,
		StopDate:         &date,
		StopTime:         &clock,
		CountryName:      ptr("India"),
		DriverGender:     ptr("M"),
		DriverAge:        ptr(34),
		DriverRace:       ptr("Asian"),
		Violation:        ptr("Speeding"),
		SearchConducted:  ptr(domain.Indicator(true)),
		SearchType:       ptr("Vehicle Search"),
		StopOutcome:      ptr("Citation"),
		IsArrested:       ptr(domain.Indicator(false)),
		StopDuration:     ptr("16-30 Min"),
		DrugsRelatedStop: ptr(domain.Indicator(false)),
		VehicleNumber:    ptr("TN12AB7890"),
		Timestamp:        &ts,
	}
}
