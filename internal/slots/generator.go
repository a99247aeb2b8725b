package slots

import (
	"context"
	"fmt"

	"barberm/internal/calendar"
	"barberm/internal/logging"
	"barberm/internal/metrics"
	"barberm/internal/models"

	"github.com/rs/zerolog"
)

// AvailabilityChecker decides whether a candidate interval collides with an
// existing active appointment.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, date, startTime string, durationMinutes int, excludeID string) (bool, error)
}

// Generator enumerates candidate start times for one date. Results are
// computed fresh on every call since bookings may change between calls.
type Generator struct {
	cal     *calendar.Calendar
	checker AvailabilityChecker
	logger  zerolog.Logger
}

func NewGenerator(cal *calendar.Calendar, checker AvailabilityChecker, logger *zerolog.Logger) *Generator {
	return &Generator{
		cal:     cal,
		checker: checker,
		logger:  logging.Component(logger, "slots"),
	}
}

// Generate returns the chronological candidate slots for date, each marked
// with its current availability. A closed day yields an empty slice.
func (g *Generator) Generate(ctx context.Context, date string, durationMinutes int) ([]models.Slot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}
	if _, err := calendar.Weekday(date); err != nil {
		return nil, err
	}

	metrics.IncSlotQuery()

	hours, open := g.cal.HoursFor(date)
	if !open {
		return []models.Slot{}, nil
	}

	breakStart, breakEnd, hasBreak := g.cal.Break()
	step := g.cal.SlotDuration()

	slots := []models.Slot{}
	current := hours.Start

	for current+durationMinutes <= hours.End {
		// A candidate overlapping the break window is skipped; jump straight
		// to the end of the break instead of stepping granule by granule.
		if hasBreak && current < breakEnd && current+durationMinutes > breakStart {
			current = breakEnd
			continue
		}

		startTime := calendar.FormatClock(current)
		available, err := g.checker.IsAvailable(ctx, date, startTime, durationMinutes, "")
		if err != nil {
			return nil, fmt.Errorf("check availability for %s %s: %w", date, startTime, err)
		}

		slots = append(slots, models.Slot{Time: startTime, Available: available})
		current += step
	}

	g.logger.Debug().
		Str("date", date).
		Int("duration", durationMinutes).
		Int("slots", len(slots)).
		Msg("slots generated")

	return slots, nil
}
