package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/domain/shared"
)

// QuoteModel is the persistence model for the SaleQuote aggregate.
// Pricing options and derived totals are flattened into columns; line items
// live in their own table and are loaded with the quote.
type QuoteModel struct {
	TenantAggregateModel
	QuoteNumber string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_quote_tenant_number,priority:2"`
	PatientID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	PatientName string              `gorm:"type:varchar(200);not null"`
	Status      pricing.QuoteStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Notes       string              `gorm:"type:text"`

	VATRate            decimal.Decimal      `gorm:"column:vat_rate;type:decimal(5,4);not null;default:0"`
	SchemeID           string               `gorm:"type:varchar(50)"`
	PatientAge         *int                 `gorm:""`
	Bilateral          bool                 `gorm:"not null;default:false"`
	GlobalDiscount     decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	GlobalDiscountType pricing.DiscountType `gorm:"type:varchar(20)"`

	Subtotal            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	GlobalDiscountTotal decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountTotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxableAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SGKEligible         bool            `gorm:"column:sgk_eligible;not null;default:false"`
	SGKDeduction        decimal.Decimal `gorm:"column:sgk_deduction;type:decimal(18,2);not null;default:0"`
	InsurerPayment      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PatientPayment      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	FinalizedAt *time.Time
	CancelledAt *time.Time

	Items []QuoteItemModel `gorm:"foreignKey:QuoteID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "sale_quotes"
}

// QuoteItemModel is the persistence model for one quote line item.
type QuoteItemModel struct {
	ID           uuid.UUID            `gorm:"type:uuid;primary_key"`
	QuoteID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	DeviceID     *uuid.UUID           `gorm:"type:uuid;index"`
	Name         string               `gorm:"type:varchar(200);not null"`
	ListPrice    decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	SalePrice    decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Quantity     int                  `gorm:"not null;default:1"`
	Discount     decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountType pricing.DiscountType `gorm:"type:varchar(20)"`
	EarSide      pricing.EarSide      `gorm:"type:varchar(10)"`
	CreatedAt    time.Time            `gorm:"not null"`
	UpdatedAt    time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (QuoteItemModel) TableName() string {
	return "sale_quote_items"
}

// ToDomain converts the persistence model to a domain QuoteItem.
func (m *QuoteItemModel) ToDomain() pricing.QuoteItem {
	return pricing.QuoteItem{
		ID:           m.ID,
		QuoteID:      m.QuoteID,
		DeviceID:     m.DeviceID,
		Name:         m.Name,
		ListPrice:    m.ListPrice,
		SalePrice:    m.SalePrice,
		Quantity:     m.Quantity,
		Discount:     m.Discount,
		DiscountType: m.DiscountType,
		EarSide:      m.EarSide,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain QuoteItem.
func (m *QuoteItemModel) FromDomain(item pricing.QuoteItem) {
	m.ID = item.ID
	m.QuoteID = item.QuoteID
	m.DeviceID = item.DeviceID
	m.Name = item.Name
	m.ListPrice = item.ListPrice
	m.SalePrice = item.SalePrice
	m.Quantity = item.Quantity
	m.Discount = item.Discount
	m.DiscountType = item.DiscountType
	m.EarSide = item.EarSide
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}

// ToDomain converts the persistence model to a domain SaleQuote aggregate.
func (m *QuoteModel) ToDomain() *pricing.SaleQuote {
	items := make([]pricing.QuoteItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.ToDomain()
	}
	return &pricing.SaleQuote{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID: m.TenantID,
		},
		QuoteNumber: m.QuoteNumber,
		PatientID:   m.PatientID,
		PatientName: m.PatientName,
		Items:       items,
		Opts: pricing.Options{
			VATRate:            m.VATRate,
			SchemeID:           m.SchemeID,
			PatientAge:         m.PatientAge,
			Bilateral:          m.Bilateral,
			GlobalDiscount:     m.GlobalDiscount,
			GlobalDiscountType: m.GlobalDiscountType,
		},
		Status:         m.Status,
		Notes:          m.Notes,
		Subtotal:       m.Subtotal,
		GlobalDiscount: m.GlobalDiscountTotal,
		DiscountTotal:  m.DiscountTotal,
		TaxableAmount:  m.TaxableAmount,
		TaxAmount:      m.TaxAmount,
		SGKEligible:    m.SGKEligible,
		SGKDeduction:   m.SGKDeduction,
		InsurerPayment: m.InsurerPayment,
		GrandTotal:     m.GrandTotal,
		PatientPayment: m.PatientPayment,
		FinalizedAt:    m.FinalizedAt,
		CancelledAt:    m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain SaleQuote aggregate.
func (m *QuoteModel) FromDomain(q *pricing.SaleQuote) {
	m.FromDomainTenantAggregateRoot(q.TenantAggregateRoot)
	m.QuoteNumber = q.QuoteNumber
	m.PatientID = q.PatientID
	m.PatientName = q.PatientName
	m.Status = q.Status
	m.Notes = q.Notes
	m.VATRate = q.Opts.VATRate
	m.SchemeID = q.Opts.SchemeID
	m.PatientAge = q.Opts.PatientAge
	m.Bilateral = q.Opts.Bilateral
	m.GlobalDiscount = q.Opts.GlobalDiscount
	m.GlobalDiscountType = q.Opts.GlobalDiscountType
	m.Subtotal = q.Subtotal
	m.GlobalDiscountTotal = q.GlobalDiscount
	m.DiscountTotal = q.DiscountTotal
	m.TaxableAmount = q.TaxableAmount
	m.TaxAmount = q.TaxAmount
	m.SGKEligible = q.SGKEligible
	m.SGKDeduction = q.SGKDeduction
	m.InsurerPayment = q.InsurerPayment
	m.GrandTotal = q.GrandTotal
	m.PatientPayment = q.PatientPayment
	m.FinalizedAt = q.FinalizedAt
	m.CancelledAt = q.CancelledAt

	m.Items = make([]QuoteItemModel, len(q.Items))
	for i, item := range q.Items {
		m.Items[i].FromDomain(item)
	}
}

// QuoteModelFromDomain creates a new persistence model from a domain SaleQuote aggregate.
func QuoteModelFromDomain(q *pricing.SaleQuote) *QuoteModel {
	m := &QuoteModel{}
	m.FromDomain(q)
	return m
}
