package scheduling

import (
	"context"
	"testing"

	"barberm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedAppointment(status models.Status) *models.Appointment {
	return &models.Appointment{
		ID:              "a1",
		ClientName:      "Juan Perez",
		Service:         "Corte de Cabello Caballero",
		ServiceDuration: 30,
		ServicePrice:    200,
		Date:            "2026-09-07",
		Time:            "10:00",
		Status:          status,
	}
}

func TestConfirm_FromPending(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(t, store)

	store.On("GetAppointment", mock.Anything, "a1").Return(storedAppointment(models.StatusPending), nil)
	store.On("UpdateAppointmentStatus", mock.Anything, "a1", models.StatusConfirmed, "").Return(nil)

	appt, err := svc.Confirm(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, appt.Status)
	store.AssertExpectations(t)
}

func TestConfirm_FromTerminalStates(t *testing.T) {
	for _, status := range []models.Status{models.StatusCompleted, models.StatusRejected, models.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			store := new(mockStore)
			svc := newTestService(t, store)

			store.On("GetAppointment", mock.Anything, "a1").Return(storedAppointment(status), nil)

			_, err := svc.Confirm(context.Background(), "a1")
			assert.ErrorIs(t, err, ErrInvalidTransition)
			store.AssertNotCalled(t, "UpdateAppointmentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReject_RequiresReason(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(t, store)

	_, err := svc.Reject(context.Background(), "a1", "   ")
	assert.ErrorIs(t, err, ErrValidation)
	store.AssertNotCalled(t, "GetAppointment", mock.Anything, mock.Anything)
}

func TestReject_StoresReason(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(t, store)

	store.On("GetAppointment", mock.Anything, "a1").Return(storedAppointment(models.StatusPending), nil)
	store.On("UpdateAppointmentStatus", mock.Anything, "a1", models.StatusRejected, "horario ocupado").Return(nil)

	appt, err := svc.Reject(context.Background(), "a1", "horario ocupado")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, appt.Status)
	assert.Equal(t, "horario ocupado", appt.RejectionReason)
}

func TestReject_ConfirmedIsNotRejectable(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(t, store)

	store.On("GetAppointment", mock.Anything, "a1").Return(storedAppointment(models.StatusConfirmed), nil)

	_, err := svc.Reject(context.Background(), "a1", "no longer possible")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_FromPendingAndConfirmed(t *testing.T) {
	for _, status := range []models.Status{models.StatusPending, models.StatusConfirmed} {
		t.Run(string(status), func(t *testing.T) {
			store := new(mockStore)
			svc := newTestService(t, store)

			store.On("GetAppointment", mock.Anything, "a1").Return(storedAppointment(status), nil)
			store.On("UpdateAppointmentStatus", mock.Anything, "a1", models.StatusCancelled, "").Return(nil)

			appt, err := svc.Cancel(context.Background(), "a1")
			require.NoError(t, err)
			assert.Equal(t, models.StatusCancelled, appt.Status)
		})
	}
}

func TestComplete_FromConfirmed(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(t, store)

	completion := models.Completion{FinalPrice: 150, PaymentMethod: models.PaymentCash}
	store.On("GetAppointment", mock.Anything, "a1").Return(storedAppointment(models.StatusConfirmed), nil)
	store.On("CompleteAppointment", mock.Anything, "a1", completion, mock.Anything).Return(nil)

	appt, err := svc.Complete(context.Background(), "a1", completion)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, appt.Status)
	// The settled price may differ from the booking-time snapshot.
	assert.Equal(t, float64(150), appt.FinalPrice)
	assert.Equal(t, float64(200), appt.ServicePrice)
	require.NotNil(t, appt.CompletedAt)
}

func TestComplete_FromPendingIsRefused(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(t, store)

	store.On("GetAppointment", mock.Anything, "a1").Return(storedAppointment(models.StatusPending), nil)

	_, err := svc.Complete(context.Background(), "a1", models.Completion{FinalPrice: 200, PaymentMethod: models.PaymentCard})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestComplete_ValidatesPayment(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(t, store)

	_, err := svc.Complete(context.Background(), "a1", models.Completion{FinalPrice: 200, PaymentMethod: "barter"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Complete(context.Background(), "a1", models.Completion{FinalPrice: -1, PaymentMethod: models.PaymentCash})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStatusTransitionTable(t *testing.T) {
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusConfirmed))
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusRejected))
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusConfirmed.CanTransitionTo(models.StatusCompleted))
	assert.True(t, models.StatusConfirmed.CanTransitionTo(models.StatusCancelled))

	assert.False(t, models.StatusPending.CanTransitionTo(models.StatusCompleted))
	assert.False(t, models.StatusConfirmed.CanTransitionTo(models.StatusRejected))
	for _, terminal := range []models.Status{models.StatusRejected, models.StatusCompleted, models.StatusCancelled} {
		assert.True(t, terminal.Terminal())
		assert.False(t, terminal.CanTransitionTo(models.StatusPending))
		assert.False(t, terminal.CanTransitionTo(models.StatusConfirmed))
	}
}
