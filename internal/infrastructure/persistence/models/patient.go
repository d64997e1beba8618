package models

import (
	"time"

	"github.com/xear/backend/internal/domain/patient"
)

// PatientModel is the persistence model for the Patient domain entity.
type PatientModel struct {
	TenantAggregateModel
	TCKN               string                `gorm:"column:tckn;type:varchar(11);not null;uniqueIndex:idx_patient_tenant_tckn,priority:2"`
	FirstName          string                `gorm:"type:varchar(100);not null"`
	LastName           string                `gorm:"type:varchar(100);not null"`
	BirthDate          time.Time             `gorm:"not null"`
	Phone              string                `gorm:"type:varchar(20);index"`
	Email              string                `gorm:"type:varchar(200)"`
	Address            string                `gorm:"type:text"`
	SGKStatus          patient.SGKStatus     `gorm:"column:sgk_status;type:varchar(20);not null;default:'NONE'"`
	HearingLossLeftDB  int                   `gorm:"column:hearing_loss_left_db;not null;default:0"`
	HearingLossRightDB int                   `gorm:"column:hearing_loss_right_db;not null;default:0"`
	Status             patient.PatientStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Notes              string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PatientModel) TableName() string {
	return "patients"
}

// ToDomain converts the persistence model to a domain Patient entity.
func (m *PatientModel) ToDomain() *patient.Patient {
	return &patient.Patient{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		TCKN:                m.TCKN,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		BirthDate:           m.BirthDate,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		SGKStatus:           m.SGKStatus,
		HearingLoss: patient.HearingLoss{
			LeftDB:  m.HearingLossLeftDB,
			RightDB: m.HearingLossRightDB,
		},
		Status: m.Status,
		Notes:  m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Patient entity.
func (m *PatientModel) FromDomain(p *patient.Patient) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.TCKN = p.TCKN
	m.FirstName = p.FirstName
	m.LastName = p.LastName
	m.BirthDate = p.BirthDate
	m.Phone = p.Phone
	m.Email = p.Email
	m.Address = p.Address
	m.SGKStatus = p.SGKStatus
	m.HearingLossLeftDB = p.HearingLoss.LeftDB
	m.HearingLossRightDB = p.HearingLoss.RightDB
	m.Status = p.Status
	m.Notes = p.Notes
}

// PatientModelFromDomain creates a new persistence model from a domain Patient entity.
func PatientModelFromDomain(p *patient.Patient) *PatientModel {
	m := &PatientModel{}
	m.FromDomain(p)
	return m
}
