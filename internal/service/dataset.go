// Package service contains the business logic for the traffic stop insights
// service. Services orchestrate repo calls, the query catalog, and the
// narrative generator. No SQL lives here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/pkordes/stop-insights/internal/domain"
	"github.com/pkordes/stop-insights/internal/metrics"
	"github.com/pkordes/stop-insights/internal/repo"
)

// DatasetService keeps the full traffic_stops table in memory and reloads it
// once the cached copy is older than the configured TTL.
type DatasetService struct {
	stops   repo.StopRepo
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time

	mu       sync.Mutex
	records  []domain.TrafficStop
	loadedAt time.Time
	loaded   bool
}

// NewDatasetService constructs a DatasetService. A ttl <= 0 disables caching.
// m may be nil.
func NewDatasetService(stops repo.StopRepo, ttl time.Duration, m *metrics.Metrics) *DatasetService {
	return &DatasetService{stops: stops, ttl: ttl, metrics: m, now: time.Now}
}

// Records returns the complete dataset ordered by id. The slice is shared
// with the cache and must not be modified.
func (s *DatasetService) Records(ctx context.Context) ([]domain.TrafficStop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && s.now().Sub(s.loadedAt) < s.ttl {
		s.metrics.DatasetCache(true)
		return s.records, nil
	}
	s.metrics.DatasetCache(false)

	records, err := s.stops.List(ctx)
	s.metrics.DatasetLoaded(len(records), err)
	if err != nil {
		return nil, fmt.Errorf("service.DatasetService.Records: %w", err)
	}
	slog.DebugContext(ctx, "dataset reloaded", "records", len(records))

	s.records = records
	s.loadedAt = s.now()
	s.loaded = true
	return records, nil
}

// Invalidate drops the cached dataset so the next read reloads it.
func (s *DatasetService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.records = nil
}

// FindByID returns the record whose id equals id exactly.
// Returns domain.ErrNotFound if the dataset has no such record.
func (s *DatasetService) FindByID(ctx context.Context, id int64) (domain.TrafficStop, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return domain.TrafficStop{}, fmt.Errorf("service.DatasetService.FindByID: %w", err)
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.TrafficStop{}, fmt.Errorf("service.DatasetService.FindByID: stop %d: %w", id, domain.ErrNotFound)
}

// Summary returns the headline metrics: total records and the number of
// arrests, drug-related stops, and searches.
func (s *DatasetService) Summary(ctx context.Context) (domain.Summary, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("service.DatasetService.Summary: %w", err)
	}
	sum := domain.Summary{TotalRecords: int64(len(records))}
	for _, r := range records {
		sum.Arrests += indicatorCount(r.IsArrested)
		sum.DrugRelated += indicatorCount(r.DrugsRelatedStop)
		sum.Searches += indicatorCount(r.SearchConducted)
	}
	return sum, nil
}

// ViolationCounts returns the number of stops per violation, most common
// first, ties broken by label. Records without a violation are skipped.
func (s *DatasetService) ViolationCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.DatasetService.ViolationCounts: %w", err)
	}

	counts := map[string]int64{}
	for _, r := range records {
		if r.Violation == nil {
			continue
		}
		counts[*r.Violation]++
	}

	out := make([]domain.CategoryCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, domain.CategoryCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

func indicatorCount(i *domain.Indicator) int64 {
	if i == nil {
		return 0
	}
	return i.Int()
}
