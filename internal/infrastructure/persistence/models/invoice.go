package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/billing"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// Lines are frozen snapshots and never queried individually, so they are
// stored as a jsonb document instead of a child table.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	QuoteID       uuid.UUID `gorm:"type:uuid;not null;index"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PatientName   string    `gorm:"type:varchar(200);not null"`
	PatientTCKN   string    `gorm:"column:patient_tckn;type:varchar(11)"`
	Lines         string    `gorm:"type:jsonb;not null;default:'[]'"`
	IssuedAt      time.Time `gorm:"not null"`
	DueAt         time.Time `gorm:"not null"`

	Subtotal       valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountTotal  valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal     valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	InsurerPayment valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	PatientPayment valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount     valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`

	Status     billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'ISSUED'"`
	VoidReason string                `gorm:"type:text"`

	EFaturaStatus billing.EFaturaStatus `gorm:"column:efatura_status;type:varchar(20);not null;default:'NONE'"`
	EFaturaUUID   string                `gorm:"column:efatura_uuid;type:varchar(50)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
func (m *InvoiceModel) ToDomain() (*billing.Invoice, error) {
	var lines []billing.InvoiceLine
	if m.Lines != "" {
		if err := json.Unmarshal([]byte(m.Lines), &lines); err != nil {
			return nil, fmt.Errorf("failed to decode invoice lines: %w", err)
		}
	}
	return &billing.Invoice{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		InvoiceNumber:       m.InvoiceNumber,
		QuoteID:             m.QuoteID,
		PatientID:           m.PatientID,
		PatientName:         m.PatientName,
		PatientTCKN:         m.PatientTCKN,
		Lines:               lines,
		IssuedAt:            m.IssuedAt,
		DueAt:               m.DueAt,
		Subtotal:            m.Subtotal,
		DiscountTotal:       m.DiscountTotal,
		TaxAmount:           m.TaxAmount,
		GrandTotal:          m.GrandTotal,
		InsurerPayment:      m.InsurerPayment,
		PatientPayment:      m.PatientPayment,
		PaidAmount:          m.PaidAmount,
		Status:              m.Status,
		VoidReason:          m.VoidReason,
		EFaturaStatus:       m.EFaturaStatus,
		EFaturaUUID:         m.EFaturaUUID,
	}, nil
}

// FromDomain populates the persistence model from a domain Invoice aggregate.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) error {
	lines, err := json.Marshal(inv.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode invoice lines: %w", err)
	}
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.QuoteID = inv.QuoteID
	m.PatientID = inv.PatientID
	m.PatientName = inv.PatientName
	m.PatientTCKN = inv.PatientTCKN
	m.Lines = string(lines)
	m.IssuedAt = inv.IssuedAt
	m.DueAt = inv.DueAt
	m.Subtotal = inv.Subtotal
	m.DiscountTotal = inv.DiscountTotal
	m.TaxAmount = inv.TaxAmount
	m.GrandTotal = inv.GrandTotal
	m.InsurerPayment = inv.InsurerPayment
	m.PatientPayment = inv.PatientPayment
	m.PaidAmount = inv.PaidAmount
	m.Status = inv.Status
	m.VoidReason = inv.VoidReason
	m.EFaturaStatus = inv.EFaturaStatus
	m.EFaturaUUID = inv.EFaturaUUID
	return nil
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice aggregate.
func InvoiceModelFromDomain(inv *billing.Invoice) (*InvoiceModel, error) {
	m := &InvoiceModel{}
	if err := m.FromDomain(inv); err != nil {
		return nil, err
	}
	return m, nil
}

// PaymentPlanModel is the persistence model for the PaymentPlan aggregate.
// Installments are stored as a jsonb document; they are only ever read and
// written together with the plan.
type PaymentPlanModel struct {
	TenantAggregateModel
	InvoiceID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_plan_tenant_invoice,priority:2"`
	Total        valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	Installments string            `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (PaymentPlanModel) TableName() string {
	return "payment_plans"
}

// ToDomain converts the persistence model to a domain PaymentPlan aggregate.
func (m *PaymentPlanModel) ToDomain() (*billing.PaymentPlan, error) {
	var installments []billing.Installment
	if m.Installments != "" {
		if err := json.Unmarshal([]byte(m.Installments), &installments); err != nil {
			return nil, fmt.Errorf("failed to decode installments: %w", err)
		}
	}
	return &billing.PaymentPlan{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		InvoiceID:           m.InvoiceID,
		Total:               m.Total,
		Installments:        installments,
	}, nil
}

// FromDomain populates the persistence model from a domain PaymentPlan aggregate.
func (m *PaymentPlanModel) FromDomain(plan *billing.PaymentPlan) error {
	installments, err := json.Marshal(plan.Installments)
	if err != nil {
		return fmt.Errorf("failed to encode installments: %w", err)
	}
	m.FromDomainTenantAggregateRoot(plan.TenantAggregateRoot)
	m.InvoiceID = plan.InvoiceID
	m.Total = plan.Total
	m.Installments = string(installments)
	return nil
}

// PaymentPlanModelFromDomain creates a new persistence model from a domain PaymentPlan aggregate.
func PaymentPlanModelFromDomain(plan *billing.PaymentPlan) (*PaymentPlanModel, error) {
	m := &PaymentPlanModel{}
	if err := m.FromDomain(plan); err != nil {
		return nil, err
	}
	return m, nil
}
