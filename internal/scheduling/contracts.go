package scheduling

import (
	"context"
	"time"

	"barberm/internal/models"
)

// Store is the persistence surface the engine depends on.
type Store interface {
	CreateAppointmentChecked(ctx context.Context, appt *models.Appointment) error
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	GetAllAppointments(ctx context.Context) ([]*models.Appointment, error)
	GetAppointmentsByClient(ctx context.Context, identifier string) ([]*models.Appointment, error)
	GetAppointmentsByDate(ctx context.Context, date string) ([]*models.Appointment, error)
	GetAppointmentsByDateRange(ctx context.Context, from, to string) ([]*models.Appointment, error)
	GetActiveAppointmentsByDate(ctx context.Context, date string) ([]*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status models.Status, rejectionReason string) error
	CompleteAppointment(ctx context.Context, id string, completion models.Completion, completedAt time.Time) error
	UpdateAppointment(ctx context.Context, id string, patch models.AppointmentPatch) error
	SoftDeleteAppointment(ctx context.Context, id string) error
	GetStats(ctx context.Context, today string) (*models.Stats, error)
	CleanupOldAppointments(ctx context.Context, cutoff string) (int64, error)
}

// EventPublisher receives lifecycle events for the notification layer.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// PublicScheduler is the surface handed to unauthenticated callers:
// browsing the catalog, checking availability and creating appointments.
type PublicScheduler interface {
	Services() []models.Service
	OpenDays(count int) []string
	Slots(ctx context.Context, date string, durationMinutes int) ([]models.Slot, error)
	IsAvailable(ctx context.Context, date, startTime string, durationMinutes int, excludeID string) (bool, error)
	CreateAppointment(ctx context.Context, req CreateRequest) (*models.Appointment, error)
	ClientAppointments(ctx context.Context, identifier string) ([]*models.Appointment, error)
}

// AdminScheduler is the surface reserved for authenticated administrators.
// Holding this handle, not a runtime flag, is what authorizes mutations.
type AdminScheduler interface {
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	ListAppointments(ctx context.Context) ([]*models.Appointment, error)
	AppointmentsByDate(ctx context.Context, date string) ([]*models.Appointment, error)
	AppointmentsByDateRange(ctx context.Context, from, to string) ([]*models.Appointment, error)
	Confirm(ctx context.Context, id string) (*models.Appointment, error)
	Reject(ctx context.Context, id, reason string) (*models.Appointment, error)
	Complete(ctx context.Context, id string, completion models.Completion) (*models.Appointment, error)
	Cancel(ctx context.Context, id string) (*models.Appointment, error)
	Patch(ctx context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.Stats, error)
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
}
