package patient

import (
	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePatient = "Patient"

// Event type constants
const (
	EventTypePatientRegistered = "PatientRegistered"
)

// PatientRegisteredEvent is raised when a new patient record is created
type PatientRegisteredEvent struct {
	shared.BaseDomainEvent
	PatientID uuid.UUID `json:"patient_id"`
	TCKN      string    `json:"tckn"`
	FullName  string    `json:"full_name"`
	SGKStatus SGKStatus `json:"sgk_status"`
}

// NewPatientRegisteredEvent creates a new PatientRegisteredEvent
func NewPatientRegisteredEvent(p *Patient) *PatientRegisteredEvent {
	return &PatientRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePatientRegistered, AggregateTypePatient, p.ID, p.TenantID),
		PatientID:       p.ID,
		TCKN:            p.TCKN,
		FullName:        p.FullName(),
		SGKStatus:       p.SGKStatus,
	}
}

// EventType returns the event type name
func (e *PatientRegisteredEvent) EventType() string {
	return EventTypePatientRegistered
}
