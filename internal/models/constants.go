package models

// Layout constants shared across the engine.
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
	TimeFormat = "15:04"      // HH:MM, 24h
)

const (
	// DefaultSlotDurationMinutes is the fallback slot granularity.
	DefaultSlotDurationMinutes = 30

	// DefaultOpenDaysCount is how many upcoming bookable dates are listed
	// when the caller does not ask for a specific count.
	DefaultOpenDaysCount = 14

	// DefaultCleanupDays is the retention window for old non-pending
	// appointments.
	DefaultCleanupDays = 90

	// DefaultRefreshIntervalSeconds is the cadence of the snapshot
	// refresh task.
	DefaultRefreshIntervalSeconds = 30

	// MaxNotesLength bounds free-text fields on create and patch.
	MaxNotesLength = 500
)
