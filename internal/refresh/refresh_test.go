package refresh

import (
	"context"
	"testing"
	"time"

	"barberm/internal/models"
	"barberm/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	stats        *models.Stats
	appointments map[string][]*models.Appointment
	openDays     []string
	statsCalls   int
}

func (s *stubSource) Stats(context.Context) (*models.Stats, error) {
	s.statsCalls++
	return s.stats, nil
}

func (s *stubSource) AppointmentsByDate(_ context.Context, date string) ([]*models.Appointment, error) {
	return s.appointments[date], nil
}

func (s *stubSource) OpenDays(count int) []string {
	if count < len(s.openDays) {
		return s.openDays[:count]
	}
	return s.openDays
}

func newStubSource() *stubSource {
	return &stubSource{
		stats: &models.Stats{Total: 2, Pending: 1, Confirmed: 1},
		appointments: map[string][]*models.Appointment{
			"2026-09-07": {
				{ID: "a1", Date: "2026-09-07", Time: "10:00", Status: models.StatusConfirmed},
			},
		},
		openDays: []string{"2026-09-07", "2026-09-08"},
	}
}

func TestRefreshOnce_WritesSnapshots(t *testing.T) {
	source := newStubSource()
	cache := repository.NewMemorySnapshotCache(time.Hour)

	r := NewRefresher(source, cache, time.Second, 14, nil)
	r.RefreshOnce(context.Background())

	assert.Equal(t, 1, source.statsCalls)

	got, err := cache.GetDaySnapshot(context.Background(), "2026-09-07")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)

	// A day without appointments still gets an (empty) snapshot entry.
	empty, err := cache.GetDaySnapshot(context.Background(), "2026-09-08")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRefreshOnce_NilCacheSkipsSnapshots(t *testing.T) {
	source := newStubSource()

	r := NewRefresher(source, nil, time.Second, 14, nil)
	r.RefreshOnce(context.Background())

	assert.Equal(t, 1, source.statsCalls)
}

func TestStart_StopsOnCancel(t *testing.T) {
	source := newStubSource()
	cache := repository.NewMemorySnapshotCache(time.Hour)

	r := NewRefresher(source, cache, 10*time.Millisecond, 14, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after context cancellation")
	}

	// Immediate pass plus at least one tick.
	assert.GreaterOrEqual(t, source.statsCalls, 2)
}
