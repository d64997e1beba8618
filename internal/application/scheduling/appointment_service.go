package scheduling

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/scheduling"
	"github.com/xear/backend/internal/domain/shared"
)

// AppointmentService handles appointment business operations
type AppointmentService struct {
	appointmentRepo scheduling.AppointmentRepository
	patientRepo     patient.PatientRepository
	eventPublisher  shared.EventPublisher
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(appointmentRepo scheduling.AppointmentRepository, patientRepo patient.PatientRepository) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AppointmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Schedule books a new visit. The slot is rejected when it overlaps any of the
// clinician's non-terminal appointments.
func (s *AppointmentService) Schedule(ctx context.Context, tenantID uuid.UUID, req ScheduleAppointmentRequest) (*AppointmentResponse, error) {
	p, err := s.patientRepo.FindByIDForTenant(ctx, tenantID, req.PatientID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, shared.NewDomainError("PATIENT_ARCHIVED", "Cannot schedule a visit for an archived patient")
	}

	slot, err := scheduling.NewSlot(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	appointment, err := scheduling.NewAppointment(tenantID, req.PatientID, req.ClinicianID, scheduling.AppointmentType(req.Type), slot)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}

	if err := s.checkConflicts(ctx, tenantID, appointment); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Save(ctx, appointment); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, appointment)
	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// GetByID retrieves an appointment by ID
func (s *AppointmentService) GetByID(ctx context.Context, tenantID, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByIDForTenant(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}
	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// List returns appointments for a tenant with pagination
func (s *AppointmentService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*AppointmentListResponse, error) {
	appointments, err := s.appointmentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.appointmentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]AppointmentResponse, len(appointments))
	for i, a := range appointments {
		responses[i] = ToAppointmentResponse(a)
	}
	return &AppointmentListResponse{
		Appointments: responses,
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.PageSize,
	}, nil
}

// ListByPatient returns the patient's visit history
func (s *AppointmentService) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.FindByPatient(ctx, tenantID, patientID)
	if err != nil {
		return nil, err
	}
	responses := make([]AppointmentResponse, len(appointments))
	for i, a := range appointments {
		responses[i] = ToAppointmentResponse(a)
	}
	return responses, nil
}

// Reschedule moves the appointment to a new slot, re-running the conflict check
func (s *AppointmentService) Reschedule(ctx context.Context, tenantID, appointmentID uuid.UUID, req RescheduleAppointmentRequest) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByIDForTenant(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	slot, err := scheduling.NewSlot(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if err := appointment.Reschedule(slot); err != nil {
		return nil, err
	}

	if err := s.checkConflicts(ctx, tenantID, appointment); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Save(ctx, appointment); err != nil {
		return nil, err
	}
	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// Confirm records patient confirmation
func (s *AppointmentService) Confirm(ctx context.Context, tenantID, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	return s.mutate(ctx, tenantID, appointmentID, func(a *scheduling.Appointment) error {
		return a.Confirm()
	})
}

// Complete closes the visit with optional clinical notes
func (s *AppointmentService) Complete(ctx context.Context, tenantID, appointmentID uuid.UUID, req CompleteAppointmentRequest) (*AppointmentResponse, error) {
	return s.mutate(ctx, tenantID, appointmentID, func(a *scheduling.Appointment) error {
		return a.Complete(req.Notes)
	})
}

// Cancel aborts the appointment
func (s *AppointmentService) Cancel(ctx context.Context, tenantID, appointmentID uuid.UUID, req CancelAppointmentRequest) (*AppointmentResponse, error) {
	return s.mutate(ctx, tenantID, appointmentID, func(a *scheduling.Appointment) error {
		return a.Cancel(req.Reason)
	})
}

// MarkNoShow records that the patient did not arrive
func (s *AppointmentService) MarkNoShow(ctx context.Context, tenantID, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	return s.mutate(ctx, tenantID, appointmentID, func(a *scheduling.Appointment) error {
		return a.MarkNoShow()
	})
}

func (s *AppointmentService) checkConflicts(ctx context.Context, tenantID uuid.UUID, appointment *scheduling.Appointment) error {
	others, err := s.appointmentRepo.FindByClinicianInRange(ctx, tenantID, appointment.ClinicianID, appointment.Slot.Start, appointment.Slot.End)
	if err != nil {
		return err
	}
	for _, other := range others {
		if appointment.ConflictsWith(other) {
			return shared.ErrSlotConflict
		}
	}
	return nil
}

func (s *AppointmentService) mutate(ctx context.Context, tenantID, appointmentID uuid.UUID, fn func(*scheduling.Appointment) error) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByIDForTenant(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := fn(appointment); err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.Save(ctx, appointment); err != nil {
		return nil, err
	}
	response := ToAppointmentResponse(appointment)
	return &response, nil
}

func (s *AppointmentService) publishEvents(ctx context.Context, appointment *scheduling.Appointment) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range appointment.GetDomainEvents() {
		// event delivery is best effort; handlers are async
		_ = s.eventPublisher.Publish(ctx, event)
	}
	appointment.ClearDomainEvents()
}
