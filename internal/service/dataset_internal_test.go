package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/stop-insights/internal/domain"
)

type countingStopRepo struct {
	calls int
}

func (r *countingStopRepo) List(context.Context) ([]domain.TrafficStop, error) {
	r.calls++
	return []domain.TrafficStop{{ID: int64(r.calls)}}, nil
}
func (r *countingStopRepo) GetByID(context.Context, int64) (domain.TrafficStop, error) {
	return domain.TrafficStop{}, domain.ErrNotFound
}
func (r *countingStopRepo) Insert(_ context.Context, s domain.TrafficStop) (domain.TrafficStop, error) {
	return s, nil
}

// TestDatasetService_Records_expiresAfterTTL drives the clock across the TTL
// boundary: a read just before expiry is cached, a read at expiry reloads.
func TestDatasetService_Records_expiresAfterTTL(t *testing.T) {
	r := &countingStopRepo{}
	svc := NewDatasetService(r, 5*time.Minute, nil)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	ctx := context.Background()

	got, err := svc.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[0].ID)

	clock = clock.Add(5*time.Minute - time.Second)
	got, err = svc.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[0].ID, "still within TTL")

	clock = clock.Add(time.Second)
	got, err = svc.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got[0].ID, "reloaded at TTL")
	assert.Equal(t, 2, r.calls)
}
