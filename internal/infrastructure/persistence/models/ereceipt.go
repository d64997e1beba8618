package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/insurance"
)

// EReceiptModel is the persistence model for the EReceipt aggregate.
// Prescription lines are a jsonb document; they carry no identity of their own.
type EReceiptModel struct {
	TenantAggregateModel
	ReceiptNumber string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_ereceipt_tenant_number,priority:2"`
	PatientText   string                   `gorm:"type:varchar(200)"`
	TCKNText      string                   `gorm:"column:tckn_text;type:varchar(20)"`
	Lines         string                   `gorm:"type:jsonb;not null;default:'[]'"`
	IssuedAt      time.Time                `gorm:"not null"`
	ValidUntil    time.Time                `gorm:""`
	Status        insurance.EReceiptStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	DocumentKey   string                   `gorm:"type:varchar(500)"`

	MatchedPatientID *uuid.UUID `gorm:"type:uuid;index"`
	MatchScore       float64    `gorm:"not null;default:0"`
	RejectReason     string     `gorm:"type:text"`
	ClaimedAt        *time.Time
	PaidAt           *time.Time
}

// TableName returns the table name for GORM
func (EReceiptModel) TableName() string {
	return "ereceipts"
}

// ToDomain converts the persistence model to a domain EReceipt aggregate.
func (m *EReceiptModel) ToDomain() (*insurance.EReceipt, error) {
	var lines []insurance.EReceiptLine
	if m.Lines != "" {
		if err := json.Unmarshal([]byte(m.Lines), &lines); err != nil {
			return nil, fmt.Errorf("failed to decode e-receipt lines: %w", err)
		}
	}
	return &insurance.EReceipt{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		ReceiptNumber:       m.ReceiptNumber,
		PatientText:         m.PatientText,
		TCKNText:            m.TCKNText,
		Lines:               lines,
		IssuedAt:            m.IssuedAt,
		ValidUntil:          m.ValidUntil,
		Status:              m.Status,
		DocumentKey:         m.DocumentKey,
		MatchedPatientID:    m.MatchedPatientID,
		MatchScore:          m.MatchScore,
		RejectReason:        m.RejectReason,
		ClaimedAt:           m.ClaimedAt,
		PaidAt:              m.PaidAt,
	}, nil
}

// FromDomain populates the persistence model from a domain EReceipt aggregate.
func (m *EReceiptModel) FromDomain(r *insurance.EReceipt) error {
	lines, err := json.Marshal(r.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode e-receipt lines: %w", err)
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.ReceiptNumber = r.ReceiptNumber
	m.PatientText = r.PatientText
	m.TCKNText = r.TCKNText
	m.Lines = string(lines)
	m.IssuedAt = r.IssuedAt
	m.ValidUntil = r.ValidUntil
	m.Status = r.Status
	m.DocumentKey = r.DocumentKey
	m.MatchedPatientID = r.MatchedPatientID
	m.MatchScore = r.MatchScore
	m.RejectReason = r.RejectReason
	m.ClaimedAt = r.ClaimedAt
	m.PaidAt = r.PaidAt
	return nil
}

// EReceiptModelFromDomain creates a new persistence model from a domain EReceipt aggregate.
func EReceiptModelFromDomain(r *insurance.EReceipt) (*EReceiptModel, error) {
	m := &EReceiptModel{}
	if err := m.FromDomain(r); err != nil {
		return nil, err
	}
	return m, nil
}

// SchemeModel is the persistence model for a tenant's coverage scheme override.
// Schemes are keyed by their string identifier within the tenant; they are not
// aggregate roots and carry no version.
type SchemeModel struct {
	TenantID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SchemeID        string          `gorm:"type:varchar(50);primaryKey"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Bands           string          `gorm:"type:jsonb;not null;default:'[]'"`
	CoveragePercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	BilateralDouble bool            `gorm:"not null;default:false"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SchemeModel) TableName() string {
	return "coverage_schemes"
}

// ToDomain converts the persistence model to a domain Scheme.
func (m *SchemeModel) ToDomain() (*insurance.Scheme, error) {
	var bands []insurance.CoverageBand
	if m.Bands != "" {
		if err := json.Unmarshal([]byte(m.Bands), &bands); err != nil {
			return nil, fmt.Errorf("failed to decode coverage bands: %w", err)
		}
	}
	return &insurance.Scheme{
		ID:              m.SchemeID,
		Name:            m.Name,
		Bands:           bands,
		CoveragePercent: m.CoveragePercent,
		BilateralDouble: m.BilateralDouble,
	}, nil
}

// FromDomain populates the persistence model from a domain Scheme.
func (m *SchemeModel) FromDomain(tenantID uuid.UUID, s *insurance.Scheme) error {
	bands, err := json.Marshal(s.Bands)
	if err != nil {
		return fmt.Errorf("failed to encode coverage bands: %w", err)
	}
	m.TenantID = tenantID
	m.SchemeID = s.ID
	m.Name = s.Name
	m.Bands = string(bands)
	m.CoveragePercent = s.CoveragePercent
	m.BilateralDouble = s.BilateralDouble
	return nil
}
