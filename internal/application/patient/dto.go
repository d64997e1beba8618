package patient

import (
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/patient"
)

// RegisterPatientRequest represents a request to register a new patient
type RegisterPatientRequest struct {
	TCKN      string    `json:"tckn" binding:"required,len=11"`
	FirstName string    `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string    `json:"last_name" binding:"required,min=1,max=100"`
	BirthDate time.Time `json:"birth_date" binding:"required"`
	Phone     string    `json:"phone" binding:"required"`
	Email     string    `json:"email" binding:"omitempty,email,max=200"`
	Address   string    `json:"address" binding:"max=500"`
	SGKStatus string    `json:"sgk_status" binding:"omitempty,oneof=NONE ACTIVE RETIRED"`
}

// UpdateContactRequest updates the patient's contact information
type UpdateContactRequest struct {
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// SetSGKStatusRequest changes the patient's social security standing
type SetSGKStatusRequest struct {
	SGKStatus string `json:"sgk_status" binding:"required,oneof=NONE ACTIVE RETIRED"`
}

// RecordHearingLossRequest stores an audiometry measurement
type RecordHearingLossRequest struct {
	LeftDB  int `json:"left_db" binding:"min=0,max=120"`
	RightDB int `json:"right_db" binding:"min=0,max=120"`
}

// SetNotesRequest replaces the clinical notes
type SetNotesRequest struct {
	Notes string `json:"notes" binding:"max=5000"`
}

// PatientResponse represents a patient in API responses
type PatientResponse struct {
	ID               uuid.UUID             `json:"id"`
	TCKN             string                `json:"tckn"`
	FirstName        string                `json:"first_name"`
	LastName         string                `json:"last_name"`
	FullName         string                `json:"full_name"`
	BirthDate        time.Time             `json:"birth_date"`
	Age              int                   `json:"age"`
	Phone            string                `json:"phone"`
	Email            string                `json:"email,omitempty"`
	Address          string                `json:"address,omitempty"`
	SGKStatus        patient.SGKStatus     `json:"sgk_status"`
	CoverageSchemeID string                `json:"coverage_scheme_id,omitempty"`
	HearingLoss      patient.HearingLoss   `json:"hearing_loss"`
	BilateralFitting bool                  `json:"bilateral_fitting"`
	Status           patient.PatientStatus `json:"status"`
	Notes            string                `json:"notes,omitempty"`
	Version          int                   `json:"version"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// PatientListResponse represents a paginated list of patients
type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// ToPatientResponse converts a patient aggregate to a response DTO
func ToPatientResponse(p *patient.Patient) PatientResponse {
	now := time.Now()
	return PatientResponse{
		ID:               p.ID,
		TCKN:             p.TCKN,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		FullName:         p.FullName(),
		BirthDate:        p.BirthDate,
		Age:              p.Age(now),
		Phone:            p.Phone,
		Email:            p.Email,
		Address:          p.Address,
		SGKStatus:        p.SGKStatus,
		CoverageSchemeID: p.CoverageSchemeID(now),
		HearingLoss:      p.HearingLoss,
		BilateralFitting: p.NeedsBilateralFitting(),
		Status:           p.Status,
		Notes:            p.Notes,
		Version:          p.Version,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
