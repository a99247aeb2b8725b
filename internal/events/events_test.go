package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var received []*Event
	bus.Subscribe(EventAppointmentCreated, func(event *Event) error {
		received = append(received, event)
		return nil
	})

	payload := AppointmentEventPayload{
		AppointmentID: "a1",
		ClientName:    "Juan Perez",
		Service:       "Corte de Cabello Caballero",
		Date:          "2026-09-07",
		Time:          "10:00",
		Status:        "pending",
	}
	require.NoError(t, bus.PublishJSON(EventAppointmentCreated, payload))

	require.Len(t, received, 1)
	assert.Equal(t, EventAppointmentCreated, received[0].Type)
	assert.False(t, received[0].CreatedAt.IsZero())

	var decoded AppointmentEventPayload
	require.NoError(t, json.Unmarshal(received[0].Payload, &decoded))
	assert.Equal(t, "a1", decoded.AppointmentID)
}

func TestEventBus_OnlyMatchingTypeFires(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	bus.Subscribe(EventAppointmentConfirmed, func(*Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.PublishJSON(EventAppointmentRejected, AppointmentEventPayload{AppointmentID: "a1"}))
	assert.Zero(t, calls)

	require.NoError(t, bus.PublishJSON(EventAppointmentConfirmed, AppointmentEventPayload{AppointmentID: "a1"}))
	assert.Equal(t, 1, calls)
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	first, second := 0, 0
	bus.Subscribe(EventAppointmentCancelled, func(*Event) error { first++; return nil })
	bus.Subscribe(EventAppointmentCancelled, func(*Event) error { second++; return nil })

	require.NoError(t, bus.PublishJSON(EventAppointmentCancelled, AppointmentEventPayload{AppointmentID: "a1"}))
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestEventBus_NilSafe(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventAppointmentCreated, AppointmentEventPayload{}))
}
