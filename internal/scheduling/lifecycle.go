package scheduling

import (
	"context"
	"strings"

	"barberm/internal/events"
	"barberm/internal/metrics"
	"barberm/internal/models"
)

// Confirm moves a pending appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, models.StatusConfirmed, "", events.EventAppointmentConfirmed)
}

// Reject declines a pending appointment. The reason is mandatory and is
// surfaced to the client, so the slot can be rebooked with context.
func (s *Service) Reject(ctx context.Context, id, reason string) (*models.Appointment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationf("rejection reason is required")
	}
	return s.transition(ctx, id, models.StatusRejected, reason, events.EventAppointmentRejected)
}

// Cancel voids a pending or confirmed appointment and frees its slot.
func (s *Service) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, models.StatusCancelled, "", events.EventAppointmentCancelled)
}

// Complete closes out a confirmed appointment with the settled price and
// payment method. FinalPrice may legitimately differ from the snapshotted
// ServicePrice.
func (s *Service) Complete(ctx context.Context, id string, completion models.Completion) (*models.Appointment, error) {
	if completion.FinalPrice < 0 {
		return nil, validationf("final price cannot be negative")
	}
	if !models.ValidPaymentMethod(completion.PaymentMethod) {
		return nil, validationf("unknown payment method %q", completion.PaymentMethod)
	}

	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransitionTo(models.StatusCompleted) {
		return nil, transitionError(appt.Status, models.StatusCompleted)
	}

	completedAt := s.now()
	if err := s.store.CompleteAppointment(ctx, id, completion, completedAt); err != nil {
		return nil, err
	}
	s.clearSnapshot(ctx, appt.Date)

	metrics.IncTransition(string(appt.Status), string(models.StatusCompleted))

	appt.Status = models.StatusCompleted
	appt.FinalPrice = completion.FinalPrice
	appt.PaymentMethod = completion.PaymentMethod
	appt.CompletionNotes = completion.CompletionNotes
	appt.CompletedAt = &completedAt

	s.publishEvent(events.EventAppointmentCompleted, appt)
	s.logger.Info().
		Str("appointment_id", id).
		Float64("final_price", completion.FinalPrice).
		Str("payment_method", completion.PaymentMethod).
		Msg("appointment completed")

	return appt, nil
}

func (s *Service) transition(ctx context.Context, id string, target models.Status, reason, eventType string) (*models.Appointment, error) {
	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransitionTo(target) {
		return nil, transitionError(appt.Status, target)
	}

	if err := s.store.UpdateAppointmentStatus(ctx, id, target, reason); err != nil {
		return nil, err
	}
	s.clearSnapshot(ctx, appt.Date)

	metrics.IncTransition(string(appt.Status), string(target))

	from := appt.Status
	appt.Status = target
	appt.RejectionReason = reason

	s.publishEvent(eventType, appt)
	s.logger.Info().
		Str("appointment_id", id).
		Str("from", string(from)).
		Str("to", string(target)).
		Msg("appointment status changed")

	return appt, nil
}

func transitionError(from, to models.Status) error {
	return validationWrap(ErrInvalidTransition, "cannot move %s to %s", from, to)
}
