package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// DeviceType is the hearing aid form factor
type DeviceType string

const (
	DeviceTypeBTE  DeviceType = "BTE"  // behind the ear
	DeviceTypeRIC  DeviceType = "RIC"  // receiver in canal
	DeviceTypeITE  DeviceType = "ITE"  // in the ear
	DeviceTypeCIC  DeviceType = "CIC"  // completely in canal
	DeviceTypeBone DeviceType = "BONE" // bone conduction
)

// IsValid checks if the type is a valid DeviceType
func (t DeviceType) IsValid() bool {
	switch t {
	case DeviceTypeBTE, DeviceTypeRIC, DeviceTypeITE, DeviceTypeCIC, DeviceTypeBone:
		return true
	}
	return false
}

// DeviceStatus represents the catalog lifecycle
type DeviceStatus string

const (
	DeviceStatusActive       DeviceStatus = "ACTIVE"
	DeviceStatusDiscontinued DeviceStatus = "DISCONTINUED"
)

// HearingDevice is the aggregate root for a sellable device model.
// Stock units of the model live in the inventory context.
type HearingDevice struct {
	shared.TenantAggregateRoot
	Brand          string
	Model          string
	Type           DeviceType
	ListPrice      valueobject.Money
	SGKBarcode     string // SUT/SGK material barcode used on e-receipts
	Channels       int
	TrialDays      int
	WarrantyMonths int
	Status         DeviceStatus
}

// NewHearingDevice registers a device model in the catalog
func NewHearingDevice(tenantID uuid.UUID, brand, model string, deviceType DeviceType, listPrice valueobject.Money) (*HearingDevice, error) {
	brand = strings.TrimSpace(brand)
	model = strings.TrimSpace(model)
	if brand == "" || model == "" {
		return nil, shared.NewDomainError("INVALID_DEVICE", "Brand and model are required")
	}
	if !deviceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEVICE_TYPE", fmt.Sprintf("Unknown device type: %s", deviceType))
	}
	if listPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}

	return &HearingDevice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Brand:               brand,
		Model:               model,
		Type:                deviceType,
		ListPrice:           listPrice,
		WarrantyMonths:      24,
		Status:              DeviceStatusActive,
	}, nil
}

// DisplayName returns "Brand Model" for quotes and invoices
func (d *HearingDevice) DisplayName() string {
	return d.Brand + " " + d.Model
}

// ChangeListPrice updates the catalog price
func (d *HearingDevice) ChangeListPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}
	d.ListPrice = price
	d.Touch()
	return nil
}

// SetSGKBarcode records the SGK material barcode
func (d *HearingDevice) SetSGKBarcode(barcode string) {
	d.SGKBarcode = barcode
	d.Touch()
}

// SetSpecs updates technical attributes
func (d *HearingDevice) SetSpecs(channels, trialDays, warrantyMonths int) error {
	if channels < 0 || trialDays < 0 || warrantyMonths < 0 {
		return shared.NewDomainError("INVALID_SPECS", "Device specs cannot be negative")
	}
	d.Channels = channels
	d.TrialDays = trialDays
	d.WarrantyMonths = warrantyMonths
	d.Touch()
	return nil
}

// Discontinue removes the model from sale. Existing stock can still be delivered.
func (d *HearingDevice) Discontinue() error {
	if d.Status == DeviceStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Device is already discontinued")
	}
	d.Status = DeviceStatusDiscontinued
	d.Touch()
	return nil
}

// IsSellable reports whether the model can appear on new quotes
func (d *HearingDevice) IsSellable() bool {
	return d.Status == DeviceStatusActive
}
