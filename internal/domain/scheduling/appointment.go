package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// AppointmentType classifies the visit
type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "CONSULTATION" // first assessment
	AppointmentTypeFitting      AppointmentType = "FITTING"      // device fitting
	AppointmentTypeTrial        AppointmentType = "TRIAL"        // trial device follow-up
	AppointmentTypeControl      AppointmentType = "CONTROL"      // periodic control
	AppointmentTypeRepair       AppointmentType = "REPAIR"       // device service drop-off
)

// IsValid checks if the type is a valid AppointmentType
func (t AppointmentType) IsValid() bool {
	switch t {
	case AppointmentTypeConsultation, AppointmentTypeFitting, AppointmentTypeTrial, AppointmentTypeControl, AppointmentTypeRepair:
		return true
	}
	return false
}

// AppointmentStatus represents the appointment lifecycle
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
)

// CanTransitionTo checks if the status can transition to the target status
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled:
		return target == AppointmentStatusConfirmed || target == AppointmentStatusCancelled || target == AppointmentStatusNoShow
	case AppointmentStatusConfirmed:
		return target == AppointmentStatusCompleted || target == AppointmentStatusCancelled || target == AppointmentStatusNoShow
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return false
	}
	return false
}

// IsTerminal reports whether the status ends the lifecycle
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// Slot is a half-open time interval [Start, End)
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewSlot validates and creates a slot
func NewSlot(start, end time.Time) (Slot, error) {
	if start.IsZero() || end.IsZero() {
		return Slot{}, shared.NewDomainError("INVALID_SLOT", "Slot start and end are required")
	}
	if !end.After(start) {
		return Slot{}, shared.NewDomainError("INVALID_SLOT", "Slot end must be after start")
	}
	return Slot{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect.
// Back-to-back slots (one ending exactly when the other starts) do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Duration returns the slot length
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Appointment is the aggregate root for a scheduled clinic visit
type Appointment struct {
	shared.TenantAggregateRoot
	PatientID    uuid.UUID
	ClinicianID  uuid.UUID
	Type         AppointmentType
	Slot         Slot
	Status       AppointmentStatus
	Notes        string
	CancelReason string
}

// NewAppointment schedules a visit. Overlap against the clinician's other
// appointments is checked by the application service before saving.
func NewAppointment(tenantID, patientID, clinicianID uuid.UUID, apptType AppointmentType, slot Slot) (*Appointment, error) {
	if patientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient ID cannot be empty")
	}
	if clinicianID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLINICIAN", "Clinician ID cannot be empty")
	}
	if !apptType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Unknown appointment type: %s", apptType))
	}
	if slot.Start.IsZero() || !slot.End.After(slot.Start) {
		return nil, shared.NewDomainError("INVALID_SLOT", "Slot end must be after start")
	}

	a := &Appointment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PatientID:           patientID,
		ClinicianID:         clinicianID,
		Type:                apptType,
		Slot:                slot,
		Status:              AppointmentStatusScheduled,
	}
	a.AddDomainEvent(NewAppointmentScheduledEvent(a))
	return a, nil
}

// ConflictsWith reports whether two appointments compete for the same
// clinician at an overlapping time. Terminal appointments never conflict.
func (a *Appointment) ConflictsWith(other *Appointment) bool {
	if a.ID == other.ID {
		return false
	}
	if a.ClinicianID != other.ClinicianID {
		return false
	}
	if a.Status.IsTerminal() || other.Status.IsTerminal() {
		return false
	}
	return a.Slot.Overlaps(other.Slot)
}

// Reschedule moves the appointment to a new slot
func (a *Appointment) Reschedule(slot Slot) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reschedule appointment in %s status", a.Status))
	}
	if slot.Start.IsZero() || !slot.End.After(slot.Start) {
		return shared.NewDomainError("INVALID_SLOT", "Slot end must be after start")
	}
	a.Slot = slot
	// a reschedule voids the previous confirmation
	a.Status = AppointmentStatusScheduled
	a.Touch()
	return nil
}

// Confirm records patient confirmation
func (a *Appointment) Confirm() error {
	if !a.Status.CanTransitionTo(AppointmentStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm appointment in %s status", a.Status))
	}
	a.Status = AppointmentStatusConfirmed
	a.Touch()
	return nil
}

// Complete closes the visit with optional clinical notes
func (a *Appointment) Complete(notes string) error {
	if !a.Status.CanTransitionTo(AppointmentStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete appointment in %s status", a.Status))
	}
	a.Status = AppointmentStatusCompleted
	if notes != "" {
		a.Notes = notes
	}
	a.Touch()
	return nil
}

// Cancel aborts the appointment
func (a *Appointment) Cancel(reason string) error {
	if !a.Status.CanTransitionTo(AppointmentStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel appointment in %s status", a.Status))
	}
	a.Status = AppointmentStatusCancelled
	a.CancelReason = reason
	a.Touch()
	return nil
}

// MarkNoShow records that the patient did not arrive
func (a *Appointment) MarkNoShow() error {
	if !a.Status.CanTransitionTo(AppointmentStatusNoShow) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark no-show in %s status", a.Status))
	}
	a.Status = AppointmentStatusNoShow
	a.Touch()
	return nil
}
