package service_test

import (
	"context"

	"github.com/pkordes/stop-insights/internal/domain"
	"github.com/pkordes/stop-insights/internal/repo"
	"github.com/pkordes/stop-insights/internal/service"
)

// ---- mock repos ------------------------------------------------------------

// mockStopRepo is a hand-written test double for repo.StopRepo.
// Set only the method fields your test needs.
type mockStopRepo struct {
	list    func(ctx context.Context) ([]domain.TrafficStop, error)
	getByID func(ctx context.Context, id int64) (domain.TrafficStop, error)
	insert  func(ctx context.Context, stop domain.TrafficStop) (domain.TrafficStop, error)

	listCalls int
}

func (m *mockStopRepo) List(ctx context.Context) ([]domain.TrafficStop, error) {
	m.listCalls++
	return m.list(ctx)
}
func (m *mockStopRepo) GetByID(ctx context.Context, id int64) (domain.TrafficStop, error) {
	return m.getByID(ctx, id)
}
func (m *mockStopRepo) Insert(ctx context.Context, stop domain.TrafficStop) (domain.TrafficStop, error) {
	return m.insert(ctx, stop)
}

// mockInsightRepo is a hand-written test double for repo.InsightRepo.
type mockInsightRepo struct {
	run func(ctx context.Context, query string) (domain.ResultTable, error)
}

func (m *mockInsightRepo) Run(ctx context.Context, query string) (domain.ResultTable, error) {
	return m.run(ctx, query)
}

// mockStopFinder is a hand-written test double for service.StopFinder.
type mockStopFinder struct {
	findByID func(ctx context.Context, id int64) (domain.TrafficStop, error)
}

func (m *mockStopFinder) FindByID(ctx context.Context, id int64) (domain.TrafficStop, error) {
	return m.findByID(ctx, id)
}

// compile-time checks: mocks must satisfy the interfaces they stand in for.
var (
	_ repo.StopRepo      = (*mockStopRepo)(nil)
	_ repo.InsightRepo   = (*mockInsightRepo)(nil)
	_ service.StopFinder = (*mockStopFinder)(nil)
	_ service.StopFinder = (*service.DatasetService)(nil)
)

func ptr[T any](v T) *T { return &v }

func flag(v int64) *domain.Indicator {
	i := domain.IndicatorFromInt(v)
	return &i
}
