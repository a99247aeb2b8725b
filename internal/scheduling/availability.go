package scheduling

import (
	"context"
	"fmt"

	"barberm/internal/calendar"
)

// IsAvailable reports whether [startTime, startTime+duration) on date is
// free of active appointments. excludeID, when non-empty, removes one
// appointment from the scan so reschedules do not collide with themselves.
func (s *Service) IsAvailable(ctx context.Context, date, startTime string, durationMinutes int, excludeID string) (bool, error) {
	start, err := calendar.ParseClock(startTime)
	if err != nil {
		return false, fmt.Errorf("parse start time %q: %w", startTime, err)
	}
	end := start + durationMinutes

	active, err := s.store.GetActiveAppointmentsByDate(ctx, date)
	if err != nil {
		return false, fmt.Errorf("load active appointments for %s: %w", date, err)
	}

	for _, appt := range active {
		if excludeID != "" && appt.ID == excludeID {
			continue
		}

		otherStart, err := calendar.ParseClock(appt.Time)
		if err != nil {
			s.logger.Warn().
				Str("appointment_id", appt.ID).
				Str("time", appt.Time).
				Msg("skipping appointment with unparseable time")
			continue
		}
		otherEnd := otherStart + appt.ServiceDuration

		// Half-open intervals overlap when each starts before the other ends.
		if start < otherEnd && otherStart < end {
			return false, nil
		}
	}

	return true, nil
}
