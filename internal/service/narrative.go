package service

import (
	"context"
	"fmt"

	"github.com/pkordes/stop-insights/internal/domain"
	"github.com/pkordes/stop-insights/internal/narrative"
)

// StopFinder resolves a record id to a record.
type StopFinder interface {
	FindByID(ctx context.Context, id int64) (domain.TrafficStop, error)
}

// NarrativeService produces the plain-text summary for a single stop.
type NarrativeService struct {
	stops StopFinder
}

// NewNarrativeService constructs a NarrativeService backed by stops.
func NewNarrativeService(stops StopFinder) *NarrativeService {
	return &NarrativeService{stops: stops}
}

// ForRecord looks up id and returns the record with its narrative.
// Returns domain.ErrNotFound if no record has that id.
func (s *NarrativeService) ForRecord(ctx context.Context, id int64) (domain.TrafficStop, string, error) {
	stop, err := s.stops.FindByID(ctx, id)
	if err != nil {
		return domain.TrafficStop{}, "", fmt.Errorf("service.NarrativeService.ForRecord: %w", err)
	}
	return stop, narrative.Generate(stop), nil
}

// ForInput renders a record supplied directly by the caller, such as an
// edited form. Nothing is looked up or stored.
func (s *NarrativeService) ForInput(stop domain.TrafficStop) string {
	return narrative.Generate(stop)
}
