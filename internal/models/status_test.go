package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusRejected, StatusCompleted, StatusCancelled} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("changed").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusOccupies(t *testing.T) {
	assert.True(t, StatusPending.Occupies())
	assert.True(t, StatusConfirmed.Occupies())
	assert.True(t, StatusCompleted.Occupies())

	// Rejected and cancelled appointments free their slot.
	assert.False(t, StatusRejected.Occupies())
	assert.False(t, StatusCancelled.Occupies())
}

func TestAppointmentIsActive(t *testing.T) {
	appt := Appointment{Status: StatusConfirmed}
	assert.True(t, appt.IsActive())

	appt.Deleted = true
	assert.False(t, appt.IsActive())

	appt = Appointment{Status: StatusRejected}
	assert.False(t, appt.IsActive())
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentCash))
	assert.True(t, ValidPaymentMethod(PaymentCard))
	assert.True(t, ValidPaymentMethod(PaymentTransfer))
	assert.False(t, ValidPaymentMethod("crypto"))
	assert.False(t, ValidPaymentMethod(""))
}

func TestAppointmentPatchIsEmpty(t *testing.T) {
	assert.True(t, AppointmentPatch{}.IsEmpty())

	name := "Juan Perez"
	assert.False(t, AppointmentPatch{ClientName: &name}.IsEmpty())
}
