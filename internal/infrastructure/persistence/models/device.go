package models

import (
	"github.com/xear/backend/internal/domain/catalog"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// DeviceModel is the persistence model for the HearingDevice domain entity.
// The list price is stored as a bare decimal; all catalog prices are TRY.
type DeviceModel struct {
	TenantAggregateModel
	Brand          string               `gorm:"type:varchar(100);not null;uniqueIndex:idx_device_tenant_brand_model,priority:2"`
	Model          string               `gorm:"type:varchar(100);not null;uniqueIndex:idx_device_tenant_brand_model,priority:3"`
	Type           catalog.DeviceType   `gorm:"type:varchar(10);not null"`
	ListPrice      valueobject.Money    `gorm:"type:decimal(18,2);not null;default:0"`
	SGKBarcode     string               `gorm:"column:sgk_barcode;type:varchar(50)"`
	Channels       int                  `gorm:"not null;default:0"`
	TrialDays      int                  `gorm:"not null;default:0"`
	WarrantyMonths int                  `gorm:"not null;default:24"`
	Status         catalog.DeviceStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (DeviceModel) TableName() string {
	return "hearing_devices"
}

// ToDomain converts the persistence model to a domain HearingDevice entity.
func (m *DeviceModel) ToDomain() *catalog.HearingDevice {
	return &catalog.HearingDevice{
		TenantAggregateRoot: m.tenantAggregateRoot(),
		Brand:               m.Brand,
		Model:               m.Model,
		Type:                m.Type,
		ListPrice:           m.ListPrice,
		SGKBarcode:          m.SGKBarcode,
		Channels:            m.Channels,
		TrialDays:           m.TrialDays,
		WarrantyMonths:      m.WarrantyMonths,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain HearingDevice entity.
func (m *DeviceModel) FromDomain(d *catalog.HearingDevice) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.Brand = d.Brand
	m.Model = d.Model
	m.Type = d.Type
	m.ListPrice = d.ListPrice
	m.SGKBarcode = d.SGKBarcode
	m.Channels = d.Channels
	m.TrialDays = d.TrialDays
	m.WarrantyMonths = d.WarrantyMonths
	m.Status = d.Status
}

// DeviceModelFromDomain creates a new persistence model from a domain HearingDevice entity.
func DeviceModelFromDomain(d *catalog.HearingDevice) *DeviceModel {
	m := &DeviceModel{}
	m.FromDomain(d)
	return m
}
