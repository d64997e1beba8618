package patient

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// SGKStatus is the patient's social security standing, which selects the
// coverage scheme applied during pricing
type SGKStatus string

const (
	SGKStatusNone    SGKStatus = "NONE"    // no coverage, patient pays in full
	SGKStatusActive  SGKStatus = "ACTIVE"  // working insured
	SGKStatusRetired SGKStatus = "RETIRED" // retired insured
)

// IsValid checks if the status is a valid SGKStatus
func (s SGKStatus) IsValid() bool {
	switch s {
	case SGKStatusNone, SGKStatusActive, SGKStatusRetired:
		return true
	}
	return false
}

// SchemeID maps the SGK standing and age to a coverage scheme identifier.
// Returns empty when no scheme applies.
func (s SGKStatus) SchemeID(age int) string {
	if s == SGKStatusNone {
		return ""
	}
	if age <= 17 {
		return "sgk-child"
	}
	if s == SGKStatusRetired {
		return "sgk-retired"
	}
	return "sgk-active"
}

// PatientStatus represents the record lifecycle
type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "ACTIVE"
	PatientStatusArchived PatientStatus = "ARCHIVED"
)

// HearingLoss describes the diagnosed loss per ear in dB HL, zero means
// no measurement recorded
type HearingLoss struct {
	LeftDB  int `json:"left_db"`
	RightDB int `json:"right_db"`
}

// Patient is the aggregate root for a clinic patient record
type Patient struct {
	shared.TenantAggregateRoot
	TCKN        string
	FirstName   string
	LastName    string
	BirthDate   time.Time
	Phone       string
	Email       string
	Address     string
	SGKStatus   SGKStatus
	HearingLoss HearingLoss
	Status      PatientStatus
	Notes       string
}

// NewPatient creates a patient record. TCKN and phone are validated and
// normalized; uniqueness of TCKN within the tenant is the repository's job.
func NewPatient(tenantID uuid.UUID, tckn, firstName, lastName string, birthDate time.Time, phone string) (*Patient, error) {
	if err := ValidateTCKN(tckn); err != nil {
		return nil, err
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if birthDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_BIRTH_DATE", "Birth date is required")
	}
	if birthDate.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_BIRTH_DATE", "Birth date cannot be in the future")
	}
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TCKN:                tckn,
		FirstName:           firstName,
		LastName:            lastName,
		BirthDate:           birthDate,
		Phone:               normalized,
		SGKStatus:           SGKStatusNone,
		Status:              PatientStatusActive,
	}
	p.AddDomainEvent(NewPatientRegisteredEvent(p))
	return p, nil
}

// FullName returns the display name
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Age returns the patient's age in whole years at the given time
func (p *Patient) Age(at time.Time) int {
	years := at.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// CoverageSchemeID resolves the coverage scheme for pricing at the given time
func (p *Patient) CoverageSchemeID(at time.Time) string {
	return p.SGKStatus.SchemeID(p.Age(at))
}

// UpdateContact changes phone, email and address
func (p *Patient) UpdateContact(phone, email, address string) error {
	if p.Status != PatientStatusActive {
		return shared.NewDomainError("PATIENT_ARCHIVED", "Cannot update an archived patient")
	}
	if phone != "" {
		normalized, err := NormalizePhone(phone)
		if err != nil {
			return err
		}
		p.Phone = normalized
	}
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	p.Email = email
	p.Address = address
	p.Touch()
	return nil
}

// SetSGKStatus updates the social security standing
func (p *Patient) SetSGKStatus(status SGKStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_SGK_STATUS", fmt.Sprintf("Unknown SGK status: %s", status))
	}
	p.SGKStatus = status
	p.Touch()
	return nil
}

// RecordHearingLoss stores the latest measurement
func (p *Patient) RecordHearingLoss(leftDB, rightDB int) error {
	if leftDB < 0 || rightDB < 0 {
		return shared.NewDomainError("INVALID_MEASUREMENT", "Hearing loss cannot be negative")
	}
	p.HearingLoss = HearingLoss{LeftDB: leftDB, RightDB: rightDB}
	p.Touch()
	return nil
}

// NeedsBilateralFitting reports whether both ears show measured loss
func (p *Patient) NeedsBilateralFitting() bool {
	return p.HearingLoss.LeftDB > 0 && p.HearingLoss.RightDB > 0
}

// SetNotes replaces the free-form clinical notes
func (p *Patient) SetNotes(notes string) {
	p.Notes = notes
	p.Touch()
}

// Archive soft-retires the record
func (p *Patient) Archive() error {
	if p.Status == PatientStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Patient is already archived")
	}
	p.Status = PatientStatusArchived
	p.Touch()
	return nil
}

// Restore reactivates an archived record
func (p *Patient) Restore() error {
	if p.Status == PatientStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Patient is already active")
	}
	p.Status = PatientStatusActive
	p.Touch()
	return nil
}

// IsActive reports whether the record is usable for new work
func (p *Patient) IsActive() bool {
	return p.Status == PatientStatusActive
}
