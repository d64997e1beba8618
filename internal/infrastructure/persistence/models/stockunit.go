package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/inventory"
)

// StockUnitModel is the persistence model for the StockUnit domain entity.
// The per-tenant unique index on serial_number backs the serial uniqueness
// guarantee of the repository.
type StockUnitModel struct {
	TenantAggregateModel
	DeviceID           uuid.UUID             `gorm:"type:uuid;not null;index"`
	SerialNumber       string                `gorm:"type:varchar(100);not null;uniqueIndex:idx_stock_tenant_serial,priority:2"`
	Status             inventory.StockStatus `gorm:"type:varchar(20);not null;default:'IN_STOCK'"`
	ReceivedAt         time.Time             `gorm:"not null"`
	ReservedForQuoteID *uuid.UUID            `gorm:"type:uuid;index"`
	DeliveredToID      *uuid.UUID            `gorm:"type:uuid;index"`
	DeliveredAt        *time.Time
	RepairNote         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockUnitModel) TableName() string {
	return "stock_units"
}

// ToDomain converts the persistence model to a domain StockUnit entity.
func (m *StockUnitModel) ToDomain() *inventory.StockUnit {
	return &inventory.StockUnit{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		DeviceID:            m.DeviceID,
		SerialNumber:        m.SerialNumber,
		Status:              m.Status,
		ReceivedAt:          m.ReceivedAt,
		ReservedForQuoteID:  m.ReservedForQuoteID,
		DeliveredToID:       m.DeliveredToID,
		DeliveredAt:         m.DeliveredAt,
		RepairNote:          m.RepairNote,
	}
}

// FromDomain populates the persistence model from a domain StockUnit entity.
func (m *StockUnitModel) FromDomain(u *inventory.StockUnit) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.DeviceID = u.DeviceID
	m.SerialNumber = u.SerialNumber
	m.Status = u.Status
	m.ReceivedAt = u.ReceivedAt
	m.ReservedForQuoteID = u.ReservedForQuoteID
	m.DeliveredToID = u.DeliveredToID
	m.DeliveredAt = u.DeliveredAt
	m.RepairNote = u.RepairNote
}

// StockUnitModelFromDomain creates a new persistence model from a domain StockUnit entity.
func StockUnitModelFromDomain(u *inventory.StockUnit) *StockUnitModel {
	m := &StockUnitModel{}
	m.FromDomain(u)
	return m
}
