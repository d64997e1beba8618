package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/scheduling"
	"github.com/xear/backend/internal/domain/shared"
)

// MockAppointmentRepository is a mock implementation of AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByClinicianInRange(ctx context.Context, tenantID, clinicianID uuid.UUID, from, to time.Time) ([]*scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, clinicianID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPatientRepository is a mock implementation of patient.PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindByTCKN(ctx context.Context, tenantID uuid.UUID, tckn string) (*patient.Patient, error) {
	args := m.Called(ctx, tenantID, tckn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*patient.Patient, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) Search(ctx context.Context, tenantID uuid.UUID, query string, filter shared.Filter) ([]*patient.Patient, error) {
	args := m.Called(ctx, tenantID, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPatientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func activePatient(t *testing.T, tenantID uuid.UUID) *patient.Patient {
	t.Helper()
	p, err := patient.NewPatient(tenantID, "10000000146", "Ayşe", "Yılmaz",
		time.Date(1958, 2, 10, 0, 0, 0, 0, time.UTC), "5321234567")
	require.NoError(t, err)
	return p
}

func slotAt(hour int, minutes int) (time.Time, time.Time) {
	start := time.Date(2026, 9, 14, hour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Duration(minutes) * time.Minute)
}

func TestAppointmentService_Schedule(t *testing.T) {
	tenantID := uuid.New()
	clinicianID := uuid.New()

	t.Run("books a free slot", func(t *testing.T) {
		apptRepo := new(MockAppointmentRepository)
		patientRepo := new(MockPatientRepository)
		service := NewAppointmentService(apptRepo, patientRepo)

		p := activePatient(t, tenantID)
		start, end := slotAt(9, 45)

		patientRepo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
		apptRepo.On("FindByClinicianInRange", mock.Anything, tenantID, clinicianID, start, end).Return([]*scheduling.Appointment{}, nil)
		apptRepo.On("Save", mock.Anything, mock.AnythingOfType("*scheduling.Appointment")).Return(nil)

		resp, err := service.Schedule(context.Background(), tenantID, ScheduleAppointmentRequest{
			PatientID:   p.ID,
			ClinicianID: clinicianID,
			Type:        "CONSULTATION",
			Start:       start,
			End:         end,
		})

		require.NoError(t, err)
		assert.Equal(t, scheduling.AppointmentStatusScheduled, resp.Status)
		assert.Equal(t, start, resp.Start)
		apptRepo.AssertExpectations(t)
	})

	t.Run("overlapping slot rejected", func(t *testing.T) {
		apptRepo := new(MockAppointmentRepository)
		patientRepo := new(MockPatientRepository)
		service := NewAppointmentService(apptRepo, patientRepo)

		p := activePatient(t, tenantID)
		start, end := slotAt(10, 45)
		busyStart, busyEnd := slotAt(10, 30)
		busySlot, err := scheduling.NewSlot(busyStart, busyEnd)
		require.NoError(t, err)
		busy, err := scheduling.NewAppointment(tenantID, uuid.New(), clinicianID, scheduling.AppointmentTypeFitting, busySlot)
		require.NoError(t, err)

		patientRepo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
		apptRepo.On("FindByClinicianInRange", mock.Anything, tenantID, clinicianID, start, end).Return([]*scheduling.Appointment{busy}, nil)

		_, err = service.Schedule(context.Background(), tenantID, ScheduleAppointmentRequest{
			PatientID:   p.ID,
			ClinicianID: clinicianID,
			Type:        "CONSULTATION",
			Start:       start,
			End:         end,
		})

		assert.ErrorIs(t, err, shared.ErrSlotConflict)
		apptRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cancelled appointment does not block the slot", func(t *testing.T) {
		apptRepo := new(MockAppointmentRepository)
		patientRepo := new(MockPatientRepository)
		service := NewAppointmentService(apptRepo, patientRepo)

		p := activePatient(t, tenantID)
		start, end := slotAt(11, 45)
		busySlot, err := scheduling.NewSlot(start, end)
		require.NoError(t, err)
		cancelled, err := scheduling.NewAppointment(tenantID, uuid.New(), clinicianID, scheduling.AppointmentTypeControl, busySlot)
		require.NoError(t, err)
		require.NoError(t, cancelled.Cancel("patient request"))

		patientRepo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
		apptRepo.On("FindByClinicianInRange", mock.Anything, tenantID, clinicianID, start, end).Return([]*scheduling.Appointment{cancelled}, nil)
		apptRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		_, err = service.Schedule(context.Background(), tenantID, ScheduleAppointmentRequest{
			PatientID:   p.ID,
			ClinicianID: clinicianID,
			Type:        "FITTING",
			Start:       start,
			End:         end,
		})
		assert.NoError(t, err)
	})

	t.Run("archived patient rejected", func(t *testing.T) {
		apptRepo := new(MockAppointmentRepository)
		patientRepo := new(MockPatientRepository)
		service := NewAppointmentService(apptRepo, patientRepo)

		p := activePatient(t, tenantID)
		require.NoError(t, p.Archive())
		start, end := slotAt(12, 45)

		patientRepo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)

		_, err := service.Schedule(context.Background(), tenantID, ScheduleAppointmentRequest{
			PatientID:   p.ID,
			ClinicianID: clinicianID,
			Type:        "CONTROL",
			Start:       start,
			End:         end,
		})
		assert.Error(t, err)
		apptRepo.AssertNotCalled(t, "FindByClinicianInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAppointmentService_Reschedule(t *testing.T) {
	tenantID := uuid.New()
	clinicianID := uuid.New()
	apptRepo := new(MockAppointmentRepository)
	patientRepo := new(MockPatientRepository)
	service := NewAppointmentService(apptRepo, patientRepo)

	start, end := slotAt(9, 45)
	slot, err := scheduling.NewSlot(start, end)
	require.NoError(t, err)
	appointment, err := scheduling.NewAppointment(tenantID, uuid.New(), clinicianID, scheduling.AppointmentTypeTrial, slot)
	require.NoError(t, err)
	require.NoError(t, appointment.Confirm())

	newStart, newEnd := slotAt(14, 45)
	apptRepo.On("FindByIDForTenant", mock.Anything, tenantID, appointment.ID).Return(appointment, nil)
	apptRepo.On("FindByClinicianInRange", mock.Anything, tenantID, clinicianID, newStart, newEnd).Return([]*scheduling.Appointment{}, nil)
	apptRepo.On("Save", mock.Anything, appointment).Return(nil)

	resp, err := service.Reschedule(context.Background(), tenantID, appointment.ID, RescheduleAppointmentRequest{Start: newStart, End: newEnd})
	require.NoError(t, err)
	assert.Equal(t, newStart, resp.Start)
	// confirmation is voided by the move
	assert.Equal(t, scheduling.AppointmentStatusScheduled, resp.Status)
}

func TestAppointmentService_Lifecycle(t *testing.T) {
	tenantID := uuid.New()
	apptRepo := new(MockAppointmentRepository)
	patientRepo := new(MockPatientRepository)
	service := NewAppointmentService(apptRepo, patientRepo)

	start, end := slotAt(9, 45)
	slot, err := scheduling.NewSlot(start, end)
	require.NoError(t, err)
	appointment, err := scheduling.NewAppointment(tenantID, uuid.New(), uuid.New(), scheduling.AppointmentTypeConsultation, slot)
	require.NoError(t, err)

	apptRepo.On("FindByIDForTenant", mock.Anything, tenantID, appointment.ID).Return(appointment, nil)
	apptRepo.On("Save", mock.Anything, appointment).Return(nil)

	resp, err := service.Confirm(context.Background(), tenantID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduling.AppointmentStatusConfirmed, resp.Status)

	resp, err = service.Complete(context.Background(), tenantID, appointment.ID, CompleteAppointmentRequest{Notes: "Sağ kulak cihaz denemesi yapıldı"})
	require.NoError(t, err)
	assert.Equal(t, scheduling.AppointmentStatusCompleted, resp.Status)
	assert.Equal(t, "Sağ kulak cihaz denemesi yapıldı", resp.Notes)

	// completed is terminal
	_, err = service.Cancel(context.Background(), tenantID, appointment.ID, CancelAppointmentRequest{Reason: "x"})
	assert.Error(t, err)
}
