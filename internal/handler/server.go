// Package handler implements the HTTP handlers for the traffic stop insights
// API. All handlers are methods on Server; they are split into files by
// resource but share the same dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/stop-insights/internal/domain"
)

// DatasetServicer defines the dataset operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type DatasetServicer interface {
	Records(ctx context.Context) ([]domain.TrafficStop, error)
	FindByID(ctx context.Context, id int64) (domain.TrafficStop, error)
	Summary(ctx context.Context) (domain.Summary, error)
	ViolationCounts(ctx context.Context) ([]domain.CategoryCount, error)
}

// InsightServicer defines the query-catalog operations the handlers depend on.
type InsightServicer interface {
	Questions() []string
	Run(ctx context.Context, question string) (domain.ResultTable, error)
}

// NarrativeServicer defines the narrative operations the handlers depend on.
type NarrativeServicer interface {
	ForRecord(ctx context.Context, id int64) (domain.TrafficStop, string, error)
	ForInput(stop domain.TrafficStop) string
}

// Server holds the dependencies shared by every handler.
type Server struct {
	dataset    DatasetServicer
	insights   InsightServicer
	narratives NarrativeServicer
}

// NewServer constructs the Server with all its dependencies.
// Any dependency may be nil if the routes using it are never exercised.
func NewServer(dataset DatasetServicer, insights InsightServicer, narratives NarrativeServicer) *Server {
	return &Server{dataset: dataset, insights: insights, narratives: narratives}
}

// Register mounts every API route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.GetDashboard)
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/stops", s.ListStops)
	r.Get("/stops/{id}", s.GetStop)
	r.Get("/stops/{id}/narrative", s.GetStopNarrative)
	r.Post("/narratives", s.CreateNarrative)

	r.Get("/summary", s.GetSummary)
	r.Get("/charts/violations", s.GetViolationChart)

	r.Get("/insights", s.ListInsights)
	r.Post("/insights/run", s.RunInsight)
}
