package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/shared"
)

// PatientService handles patient record business operations
type PatientService struct {
	patientRepo    patient.PatientRepository
	eventPublisher shared.EventPublisher
}

// NewPatientService creates a new PatientService
func NewPatientService(patientRepo patient.PatientRepository) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PatientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates a new patient record. TCKN must be unique within the tenant.
func (s *PatientService) Register(ctx context.Context, tenantID uuid.UUID, req RegisterPatientRequest) (*PatientResponse, error) {
	existing, err := s.patientRepo.FindByTCKN(ctx, tenantID, req.TCKN)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("TCKN_IN_USE", "A patient with this TCKN already exists")
	}

	p, err := patient.NewPatient(tenantID, req.TCKN, req.FirstName, req.LastName, req.BirthDate, req.Phone)
	if err != nil {
		return nil, err
	}
	if req.Email != "" || req.Address != "" {
		if err := p.UpdateContact("", req.Email, req.Address); err != nil {
			return nil, err
		}
	}
	if req.SGKStatus != "" {
		if err := p.SetSGKStatus(patient.SGKStatus(req.SGKStatus)); err != nil {
			return nil, err
		}
	}

	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)
	response := ToPatientResponse(p)
	return &response, nil
}

// GetByID retrieves a patient by ID
func (s *PatientService) GetByID(ctx context.Context, tenantID, patientID uuid.UUID) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByIDForTenant(ctx, tenantID, patientID)
	if err != nil {
		return nil, err
	}
	response := ToPatientResponse(p)
	return &response, nil
}

// GetByTCKN retrieves a patient by national identity number
func (s *PatientService) GetByTCKN(ctx context.Context, tenantID uuid.UUID, tckn string) (*PatientResponse, error) {
	if err := patient.ValidateTCKN(tckn); err != nil {
		return nil, err
	}
	p, err := s.patientRepo.FindByTCKN(ctx, tenantID, tckn)
	if err != nil {
		return nil, err
	}
	response := ToPatientResponse(p)
	return &response, nil
}

// List returns patients for a tenant with pagination
func (s *PatientService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*PatientListResponse, error) {
	patients, err := s.patientRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.patientRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PatientResponse, len(patients))
	for i, p := range patients {
		responses[i] = ToPatientResponse(p)
	}
	return &PatientListResponse{
		Patients: responses,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.PageSize,
	}, nil
}

// Search finds patients by name, TCKN or phone fragment
func (s *PatientService) Search(ctx context.Context, tenantID uuid.UUID, query string, filter shared.Filter) ([]PatientResponse, error) {
	patients, err := s.patientRepo.Search(ctx, tenantID, query, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PatientResponse, len(patients))
	for i, p := range patients {
		responses[i] = ToPatientResponse(p)
	}
	return responses, nil
}

// UpdateContact changes the patient's contact information
func (s *PatientService) UpdateContact(ctx context.Context, tenantID, patientID uuid.UUID, req UpdateContactRequest) (*PatientResponse, error) {
	return s.mutate(ctx, tenantID, patientID, func(p *patient.Patient) error {
		return p.UpdateContact(req.Phone, req.Email, req.Address)
	})
}

// SetSGKStatus changes the patient's social security standing
func (s *PatientService) SetSGKStatus(ctx context.Context, tenantID, patientID uuid.UUID, req SetSGKStatusRequest) (*PatientResponse, error) {
	return s.mutate(ctx, tenantID, patientID, func(p *patient.Patient) error {
		return p.SetSGKStatus(patient.SGKStatus(req.SGKStatus))
	})
}

// RecordHearingLoss stores the latest audiometry measurement
func (s *PatientService) RecordHearingLoss(ctx context.Context, tenantID, patientID uuid.UUID, req RecordHearingLossRequest) (*PatientResponse, error) {
	return s.mutate(ctx, tenantID, patientID, func(p *patient.Patient) error {
		return p.RecordHearingLoss(req.LeftDB, req.RightDB)
	})
}

// SetNotes replaces the clinical notes
func (s *PatientService) SetNotes(ctx context.Context, tenantID, patientID uuid.UUID, req SetNotesRequest) (*PatientResponse, error) {
	return s.mutate(ctx, tenantID, patientID, func(p *patient.Patient) error {
		p.SetNotes(req.Notes)
		return nil
	})
}

// Archive soft-retires the patient record
func (s *PatientService) Archive(ctx context.Context, tenantID, patientID uuid.UUID) (*PatientResponse, error) {
	return s.mutate(ctx, tenantID, patientID, func(p *patient.Patient) error {
		return p.Archive()
	})
}

// Restore reactivates an archived patient record
func (s *PatientService) Restore(ctx context.Context, tenantID, patientID uuid.UUID) (*PatientResponse, error) {
	return s.mutate(ctx, tenantID, patientID, func(p *patient.Patient) error {
		return p.Restore()
	})
}

func (s *PatientService) mutate(ctx context.Context, tenantID, patientID uuid.UUID, fn func(*patient.Patient) error) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByIDForTenant(ctx, tenantID, patientID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPatientResponse(p)
	return &response, nil
}

func (s *PatientService) publishEvents(ctx context.Context, p *patient.Patient) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range p.GetDomainEvents() {
		// event delivery is best effort; handlers are async
		_ = s.eventPublisher.Publish(ctx, event)
	}
	p.ClearDomainEvents()
}
