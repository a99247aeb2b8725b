package models

import "time"

// Appointment is the central record of the scheduling engine. Date is the
// ISO calendar day (YYYY-MM-DD) and Time the 24h start time (HH:MM); both
// are kept as strings so lookups compare exactly and weekday math never
// shifts across timezones.
type Appointment struct {
	ID              string `json:"id"`
	ClientName      string `json:"client_name"`
	ClientEmail     string `json:"client_email"`
	ClientPhone     string `json:"client_phone"`
	Service         string `json:"service"`
	ServiceDuration int    `json:"service_duration"`
	ServicePrice    float64 `json:"service_price"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Notes           string `json:"notes,omitempty"`
	Status          Status `json:"status"`

	// Set only when Status is StatusRejected.
	RejectionReason string `json:"rejection_reason,omitempty"`

	// Set only when Status is StatusCompleted. FinalPrice may differ from
	// ServicePrice in either direction.
	FinalPrice      float64    `json:"final_price,omitempty"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	// Deleted marks the record invisible to all reads. Orthogonal to Status.
	Deleted bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the appointment occupies its time slot.
// Rejected and cancelled appointments free the slot.
func (a *Appointment) IsActive() bool {
	return !a.Deleted && a.Status.Occupies()
}

// Completion carries the data attached when an appointment is completed.
type Completion struct {
	FinalPrice      float64 `json:"final_price"`
	PaymentMethod   string  `json:"payment_method"`
	CompletionNotes string  `json:"completion_notes,omitempty"`
}

// AppointmentPatch is a partial update; nil fields are left untouched.
type AppointmentPatch struct {
	ClientName  *string `json:"client_name,omitempty"`
	ClientEmail *string `json:"client_email,omitempty"`
	ClientPhone *string `json:"client_phone,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p AppointmentPatch) IsEmpty() bool {
	return p.ClientName == nil && p.ClientEmail == nil && p.ClientPhone == nil &&
		p.Date == nil && p.Time == nil && p.Notes == nil
}
