package repository

import (
	"context"
	"sync/atomic"
	"time"

	"barberm/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSnapshotCache prefers the primary cache and switches to the
// fallback while the primary is down, probing for recovery once a minute.
type FailoverSnapshotCache struct {
	primary   SnapshotCache
	fallback  SnapshotCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverSnapshotCache(primary, fallback SnapshotCache, logger *zerolog.Logger) *FailoverSnapshotCache {
	return &FailoverSnapshotCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSnapshotCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary snapshot cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSnapshotCache) shouldProbe() bool {
	return time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute
}

func (r *FailoverSnapshotCache) SetDaySnapshot(ctx context.Context, date string, appointments []*models.Appointment) error {
	if !r.isDown.Load() || r.shouldProbe() {
		err := r.primary.SetDaySnapshot(ctx, date, appointments)
		if err == nil {
			r.isDown.Store(false)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetDaySnapshot(ctx, date, appointments)
}

func (r *FailoverSnapshotCache) GetDaySnapshot(ctx context.Context, date string) ([]*models.Appointment, error) {
	if !r.isDown.Load() || r.shouldProbe() {
		appointments, err := r.primary.GetDaySnapshot(ctx, date)
		if err == nil {
			r.isDown.Store(false)
			return appointments, nil
		}
		r.markDown(err)
	}

	return r.fallback.GetDaySnapshot(ctx, date)
}

func (r *FailoverSnapshotCache) ClearDaySnapshot(ctx context.Context, date string) error {
	if !r.isDown.Load() || r.shouldProbe() {
		err := r.primary.ClearDaySnapshot(ctx, date)
		if err == nil {
			r.isDown.Store(false)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearDaySnapshot(ctx, date)
}
