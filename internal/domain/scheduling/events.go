package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeAppointment = "Appointment"

// Event type constants
const (
	EventTypeAppointmentScheduled = "AppointmentScheduled"
)

// AppointmentScheduledEvent is raised when a visit is booked
type AppointmentScheduledEvent struct {
	shared.BaseDomainEvent
	AppointmentID uuid.UUID       `json:"appointment_id"`
	PatientID     uuid.UUID       `json:"patient_id"`
	ClinicianID   uuid.UUID       `json:"clinician_id"`
	Type          AppointmentType `json:"type"`
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
}

// NewAppointmentScheduledEvent creates a new AppointmentScheduledEvent
func NewAppointmentScheduledEvent(a *Appointment) *AppointmentScheduledEvent {
	return &AppointmentScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAppointmentScheduled, AggregateTypeAppointment, a.ID, a.TenantID),
		AppointmentID:   a.ID,
		PatientID:       a.PatientID,
		ClinicianID:     a.ClinicianID,
		Type:            a.Type,
		Start:           a.Slot.Start,
		End:             a.Slot.End,
	}
}

// EventType returns the event type name
func (e *AppointmentScheduledEvent) EventType() string {
	return EventTypeAppointmentScheduled
}
