package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/stop-insights/internal/catalog"
	"github.com/pkordes/stop-insights/internal/domain"
	"github.com/pkordes/stop-insights/internal/metrics"
	"github.com/pkordes/stop-insights/internal/repo"
)

// InsightService answers the canned questions of the query catalog.
type InsightService struct {
	catalog  *catalog.Catalog
	insights repo.InsightRepo
	metrics  *metrics.Metrics
}

// NewInsightService constructs an InsightService. m may be nil.
func NewInsightService(c *catalog.Catalog, insights repo.InsightRepo, m *metrics.Metrics) *InsightService {
	return &InsightService{catalog: c, insights: insights, metrics: m}
}

// Questions returns the catalog's questions in display order.
func (s *InsightService) Questions() []string {
	return s.catalog.Questions()
}

// Run resolves question through the catalog and executes its query.
// Returns domain.ErrNotFound for a question the catalog does not contain;
// the store is not contacted in that case.
func (s *InsightService) Run(ctx context.Context, question string) (domain.ResultTable, error) {
	query, err := s.catalog.Lookup(question)
	if err != nil {
		s.metrics.InsightRun("unknown_question")
		return domain.ResultTable{}, fmt.Errorf("service.InsightService.Run: %w", err)
	}

	table, err := s.insights.Run(ctx, query)
	if err != nil {
		s.metrics.InsightRun("error")
		return domain.ResultTable{}, fmt.Errorf("service.InsightService.Run: %w", err)
	}
	s.metrics.InsightRun("ok")
	slog.DebugContext(ctx, "insight executed", "question", question, "rows", len(table.Rows))
	return table, nil
}
