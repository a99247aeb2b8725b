package refresh

import (
	"context"
	"time"

	"barberm/internal/logging"
	"barberm/internal/metrics"
	"barberm/internal/models"
	"barberm/internal/repository"

	"github.com/rs/zerolog"
)

// Source is the read surface the refresher polls.
type Source interface {
	Stats(ctx context.Context) (*models.Stats, error)
	AppointmentsByDate(ctx context.Context, date string) ([]*models.Appointment, error)
	OpenDays(count int) []string
}

// Refresher replaces ad hoc client polling with one owned periodic task:
// it republishes status gauges and day snapshots on a fixed interval and
// stops cleanly when its context is cancelled.
type Refresher struct {
	source   Source
	cache    repository.SnapshotCache
	interval time.Duration
	days     int
	logger   zerolog.Logger
}

func NewRefresher(source Source, cache repository.SnapshotCache, interval time.Duration, days int, logger *zerolog.Logger) *Refresher {
	if interval <= 0 {
		interval = time.Duration(models.DefaultRefreshIntervalSeconds) * time.Second
	}
	if days <= 0 {
		days = models.DefaultOpenDaysCount
	}

	return &Refresher{
		source:   source,
		cache:    cache,
		interval: interval,
		days:     days,
		logger:   logging.Component(logger, "refresh"),
	}
}

// Start runs the refresh loop until ctx is cancelled. The first refresh
// runs immediately.
func (r *Refresher) Start(ctx context.Context) {
	r.logger.Info().Dur("interval", r.interval).Msg("refresh task started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RefreshOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("refresh task stopped")
			return
		case <-ticker.C:
			r.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce performs a single refresh pass.
func (r *Refresher) RefreshOnce(ctx context.Context) {
	r.refreshStats(ctx)
	r.refreshSnapshots(ctx)
}

func (r *Refresher) refreshStats(ctx context.Context) {
	stats, err := r.source.Stats(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("refresh stats error")
		return
	}

	metrics.SetStatusCount(string(models.StatusPending), stats.Pending)
	metrics.SetStatusCount(string(models.StatusConfirmed), stats.Confirmed)
	metrics.SetStatusCount(string(models.StatusRejected), stats.Rejected)
	metrics.SetStatusCount(string(models.StatusCompleted), stats.Completed)
	metrics.SetStatusCount(string(models.StatusCancelled), stats.Cancelled)
}

func (r *Refresher) refreshSnapshots(ctx context.Context) {
	if r.cache == nil {
		return
	}

	for _, date := range r.source.OpenDays(r.days) {
		appointments, err := r.source.AppointmentsByDate(ctx, date)
		if err != nil {
			r.logger.Error().Err(err).Str("date", date).Msg("refresh snapshot error")
			continue
		}
		if err := r.cache.SetDaySnapshot(ctx, date, appointments); err != nil {
			r.logger.Error().Err(err).Str("date", date).Msg("store snapshot error")
		}
	}
}
