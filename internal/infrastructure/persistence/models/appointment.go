package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/scheduling"
)

// AppointmentModel is the persistence model for the Appointment domain entity.
// The slot is flattened into start/end columns so overlap checks can run as
// plain range queries.
type AppointmentModel struct {
	TenantAggregateModel
	PatientID    uuid.UUID                    `gorm:"type:uuid;not null;index"`
	ClinicianID  uuid.UUID                    `gorm:"type:uuid;not null;index:idx_appt_clinician_range"`
	Type         scheduling.AppointmentType   `gorm:"type:varchar(20);not null"`
	StartAt      time.Time                    `gorm:"not null;index:idx_appt_clinician_range"`
	EndAt        time.Time                    `gorm:"not null"`
	Status       scheduling.AppointmentStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED'"`
	Notes        string                       `gorm:"type:text"`
	CancelReason string                       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AppointmentModel) TableName() string {
	return "appointments"
}

// ToDomain converts the persistence model to a domain Appointment entity.
func (m *AppointmentModel) ToDomain() *scheduling.Appointment {
	return &scheduling.Appointment{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		PatientID:           m.PatientID,
		ClinicianID:         m.ClinicianID,
		Type:                m.Type,
		Slot: scheduling.Slot{
			Start: m.StartAt,
			End:   m.EndAt,
		},
		Status:       m.Status,
		Notes:        m.Notes,
		CancelReason: m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Appointment entity.
func (m *AppointmentModel) FromDomain(a *scheduling.Appointment) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.PatientID = a.PatientID
	m.ClinicianID = a.ClinicianID
	m.Type = a.Type
	m.StartAt = a.Slot.Start
	m.EndAt = a.Slot.End
	m.Status = a.Status
	m.Notes = a.Notes
	m.CancelReason = a.CancelReason
}

// AppointmentModelFromDomain creates a new persistence model from a domain Appointment entity.
func AppointmentModelFromDomain(a *scheduling.Appointment) *AppointmentModel {
	m := &AppointmentModel{}
	m.FromDomain(a)
	return m
}
