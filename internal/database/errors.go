package database

import "errors"

var (
	// ErrNotFound is returned when the target appointment does not exist
	// or has been logically deleted.
	ErrNotFound = errors.New("appointment not found")

	// ErrSlotTaken is returned by the conflict-checked insert when an
	// active appointment already overlaps the requested interval.
	ErrSlotTaken = errors.New("time slot already taken")
)
