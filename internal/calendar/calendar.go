package calendar

import (
	"fmt"
	"strings"
	"time"

	"barberm/internal/config"
	"barberm/internal/models"
)

// DayHours is one weekday's operating window in minutes since midnight.
type DayHours struct {
	Start  int
	End    int
	Closed bool
}

// Calendar answers whether a calendar day is inside business hours. It is
// built once from configuration and never mutated at runtime.
type Calendar struct {
	hours        [7]DayHours // indexed by time.Weekday
	breakStart   int
	breakEnd     int
	hasBreak     bool
	slotDuration int
}

var weekdayByKey = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// New builds a Calendar from the business configuration. Weekdays absent
// from the config are treated as closed.
func New(cfg config.BusinessConfig) (*Calendar, error) {
	if err := config.ValidateBusiness(cfg); err != nil {
		return nil, err
	}

	c := &Calendar{slotDuration: cfg.SlotDurationMinutes}
	for i := range c.hours {
		c.hours[i] = DayHours{Closed: true}
	}

	for key, wd := range weekdayByKey {
		raw, ok := cfg.WorkingHours[key]
		if !ok || raw.Closed {
			continue
		}
		start, err := ParseClock(raw.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseClock(raw.End)
		if err != nil {
			return nil, err
		}
		c.hours[wd] = DayHours{Start: start, End: end}
	}

	if cfg.BreakTime.Start != "" && cfg.BreakTime.End != "" {
		start, err := ParseClock(cfg.BreakTime.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseClock(cfg.BreakTime.End)
		if err != nil {
			return nil, err
		}
		c.breakStart, c.breakEnd = start, end
		c.hasBreak = true
	}

	return c, nil
}

// IsOpen reports whether the business operates on the given ISO date.
func (c *Calendar) IsOpen(date string) bool {
	_, ok := c.HoursFor(date)
	return ok
}

// HoursFor returns the operating window for the date's weekday, or false
// when the day is closed or the date is malformed.
func (c *Calendar) HoursFor(date string) (DayHours, bool) {
	wd, err := Weekday(date)
	if err != nil {
		return DayHours{}, false
	}
	hours := c.hours[wd]
	if hours.Closed {
		return DayHours{}, false
	}
	return hours, true
}

// Break returns the daily break window in minutes; ok is false when no
// break is configured.
func (c *Calendar) Break() (start, end int, ok bool) {
	return c.breakStart, c.breakEnd, c.hasBreak
}

// SlotDuration returns the generation granularity in minutes.
func (c *Calendar) SlotDuration() int {
	return c.slotDuration
}

// NextOpenDays lists the next count ISO dates, starting at from, whose
// weekday is open for business. The scan is bounded at seven candidate
// days per requested day, so a schedule with no open weekday yields a
// short (possibly empty) result instead of looping forever.
func (c *Calendar) NextOpenDays(from time.Time, count int) []string {
	days := make([]string, 0, count)
	current := from
	for scanned := 0; len(days) < count && scanned < 7*count; scanned++ {
		if !c.hours[current.Weekday()].Closed {
			days = append(days, current.Format(models.DateFormat))
		}
		current = current.AddDate(0, 0, 1)
	}
	return days
}

// Weekday derives the day of week from an ISO date string. Parsing with the
// date-only layout pins the value to the civil date itself, so the result
// never shifts with the host timezone.
func Weekday(date string) (time.Weekday, error) {
	t, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", date, err)
	}
	return t.Weekday(), nil
}

// ParseClock converts an HH:MM string to minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(models.TimeFormat, strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
