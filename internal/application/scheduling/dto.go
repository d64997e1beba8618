package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/scheduling"
)

// ScheduleAppointmentRequest represents a request to book a clinic visit
type ScheduleAppointmentRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	ClinicianID uuid.UUID `json:"clinician_id" binding:"required"`
	Type        string    `json:"type" binding:"required,oneof=CONSULTATION FITTING TRIAL CONTROL REPAIR"`
	Start       time.Time `json:"start" binding:"required"`
	End         time.Time `json:"end" binding:"required"`
	Notes       string    `json:"notes" binding:"max=2000"`
}

// RescheduleAppointmentRequest moves the visit to a new slot
type RescheduleAppointmentRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// CompleteAppointmentRequest closes the visit
type CompleteAppointmentRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// CancelAppointmentRequest aborts the visit
type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// AppointmentResponse represents an appointment in API responses
type AppointmentResponse struct {
	ID           uuid.UUID                    `json:"id"`
	PatientID    uuid.UUID                    `json:"patient_id"`
	ClinicianID  uuid.UUID                    `json:"clinician_id"`
	Type         scheduling.AppointmentType   `json:"type"`
	Start        time.Time                    `json:"start"`
	End          time.Time                    `json:"end"`
	Status       scheduling.AppointmentStatus `json:"status"`
	Notes        string                       `json:"notes,omitempty"`
	CancelReason string                       `json:"cancel_reason,omitempty"`
	Version      int                          `json:"version"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

// AppointmentListResponse represents a paginated list of appointments
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

// ToAppointmentResponse converts an appointment aggregate to a response DTO
func ToAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           a.ID,
		PatientID:    a.PatientID,
		ClinicianID:  a.ClinicianID,
		Type:         a.Type,
		Start:        a.Slot.Start,
		End:          a.Slot.End,
		Status:       a.Status,
		Notes:        a.Notes,
		CancelReason: a.CancelReason,
		Version:      a.Version,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
