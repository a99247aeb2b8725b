package database

import (
	"context"
	"os"
	"testing"
	"time"

	"barberm/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	return db
}

func testAppointment(date, startTime string) *models.Appointment {
	return &models.Appointment{
		ID:              uuid.NewString(),
		ClientName:      "Juan Perez",
		ClientEmail:     "juan@example.com",
		ClientPhone:     "555-0100",
		Service:         "Corte de Cabello Caballero",
		ServiceDuration: 30,
		ServicePrice:    200,
		Date:            date,
		Time:            startTime,
		Status:          models.StatusPending,
	}
}

func TestCreateAndGetAppointment(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	appt := testAppointment("2026-09-07", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, appt))

	got, err := db.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, got.ID)
	assert.Equal(t, "Juan Perez", got.ClientName)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, float64(200), got.ServicePrice)
	assert.Nil(t, got.CompletedAt)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetAppointment_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetAppointment(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAppointmentChecked_Conflict(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	first := testAppointment("2026-09-07", "10:00")
	require.NoError(t, db.CreateAppointmentChecked(ctx, first))

	// Exact duplicate slot.
	second := testAppointment("2026-09-07", "10:00")
	assert.ErrorIs(t, db.CreateAppointmentChecked(ctx, second), ErrSlotTaken)

	// Partial overlap: 10:15 starts inside [10:00, 10:30).
	overlapping := testAppointment("2026-09-07", "10:15")
	assert.ErrorIs(t, db.CreateAppointmentChecked(ctx, overlapping), ErrSlotTaken)

	// Back to back is fine: [10:30, 11:00) touches but does not overlap.
	adjacent := testAppointment("2026-09-07", "10:30")
	assert.NoError(t, db.CreateAppointmentChecked(ctx, adjacent))
}

func TestCreateAppointmentChecked_IgnoresInactive(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	rejected := testAppointment("2026-09-07", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, rejected))
	require.NoError(t, db.UpdateAppointmentStatus(ctx, rejected.ID, models.StatusRejected, "horario ocupado"))

	// The rejected appointment no longer occupies the slot.
	replacement := testAppointment("2026-09-07", "10:00")
	assert.NoError(t, db.CreateAppointmentChecked(ctx, replacement))
}

func TestGetAppointmentsByClient(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	byEmail := testAppointment("2026-09-07", "10:00")
	byEmail.ClientPhone = ""
	require.NoError(t, db.CreateAppointment(ctx, byEmail))

	byPhone := testAppointment("2026-09-08", "11:00")
	byPhone.ClientEmail = ""
	require.NoError(t, db.CreateAppointment(ctx, byPhone))

	other := testAppointment("2026-09-08", "12:00")
	other.ClientEmail = "other@example.com"
	other.ClientPhone = "555-9999"
	require.NoError(t, db.CreateAppointment(ctx, other))

	found, err := db.GetAppointmentsByClient(ctx, "juan@example.com")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, byEmail.ID, found[0].ID)

	found, err = db.GetAppointmentsByClient(ctx, "555-0100")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, byPhone.ID, found[0].ID)
}

func TestGetAppointmentsByDateRange(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	before := testAppointment("2026-09-06", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, before))

	monday := testAppointment("2026-09-07", "11:00")
	require.NoError(t, db.CreateAppointment(ctx, monday))

	tuesday := testAppointment("2026-09-08", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, tuesday))

	deleted := testAppointment("2026-09-08", "12:00")
	require.NoError(t, db.CreateAppointment(ctx, deleted))
	require.NoError(t, db.SoftDeleteAppointment(ctx, deleted.ID))

	after := testAppointment("2026-09-09", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, after))

	// Both bounds are inclusive; the deleted row is filtered out.
	found, err := db.GetAppointmentsByDateRange(ctx, "2026-09-07", "2026-09-08")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, monday.ID, found[0].ID)
	assert.Equal(t, tuesday.ID, found[1].ID)
}

func TestGetActiveAppointmentsByDate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	pending := testAppointment("2026-09-07", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, pending))

	cancelled := testAppointment("2026-09-07", "11:00")
	require.NoError(t, db.CreateAppointment(ctx, cancelled))
	require.NoError(t, db.UpdateAppointmentStatus(ctx, cancelled.ID, models.StatusCancelled, ""))

	otherDay := testAppointment("2026-09-08", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, otherDay))

	active, err := db.GetActiveAppointmentsByDate(ctx, "2026-09-07")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, pending.ID, active[0].ID)
}

func TestCompleteAppointment(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	appt := testAppointment("2026-09-07", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, appt))

	completedAt := time.Now()
	completion := models.Completion{
		FinalPrice:      150,
		PaymentMethod:   models.PaymentCash,
		CompletionNotes: "regular client discount",
	}
	require.NoError(t, db.CompleteAppointment(ctx, appt.ID, completion, completedAt))

	got, err := db.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, float64(150), got.FinalPrice)
	assert.Equal(t, float64(200), got.ServicePrice)
	assert.Equal(t, models.PaymentCash, got.PaymentMethod)
	require.NotNil(t, got.CompletedAt)
}

func TestUpdateAppointment_Patch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	appt := testAppointment("2026-09-07", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, appt))

	newTime := "16:00"
	newNotes := "prefers window seat"
	patch := models.AppointmentPatch{Time: &newTime, Notes: &newNotes}
	require.NoError(t, db.UpdateAppointment(ctx, appt.ID, patch))

	got, err := db.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "16:00", got.Time)
	assert.Equal(t, "prefers window seat", got.Notes)
	assert.Equal(t, "Juan Perez", got.ClientName)
}

func TestSoftDeleteAppointment(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	appt := testAppointment("2026-09-07", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, appt))
	require.NoError(t, db.SoftDeleteAppointment(ctx, appt.ID))

	_, err := db.GetAppointment(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := db.GetAllAppointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// Deleting twice reports not found.
	assert.ErrorIs(t, db.SoftDeleteAppointment(ctx, appt.ID), ErrNotFound)
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	today := time.Now().Format(models.DateFormat)

	pending := testAppointment(today, "10:00")
	require.NoError(t, db.CreateAppointment(ctx, pending))

	confirmed := testAppointment("2026-09-08", "11:00")
	require.NoError(t, db.CreateAppointment(ctx, confirmed))
	require.NoError(t, db.UpdateAppointmentStatus(ctx, confirmed.ID, models.StatusConfirmed, ""))

	stats, err := db.GetStats(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Confirmed)
	assert.Equal(t, 1, stats.Today)
}

func TestCleanupOldAppointments(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	old := testAppointment("2020-01-10", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, old))
	require.NoError(t, db.UpdateAppointmentStatus(ctx, old.ID, models.StatusCancelled, ""))

	// Old but still pending appointments are kept for manual review.
	oldPending := testAppointment("2020-01-11", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, oldPending))

	recent := testAppointment("2026-09-07", "10:00")
	require.NoError(t, db.CreateAppointment(ctx, recent))
	require.NoError(t, db.UpdateAppointmentStatus(ctx, recent.ID, models.StatusCancelled, ""))

	removed, err := db.CleanupOldAppointments(ctx, "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = db.GetAppointment(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.GetAppointment(ctx, oldPending.ID)
	assert.NoError(t, err)
}
