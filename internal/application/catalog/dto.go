package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/catalog"
)

// CreateDeviceRequest registers a device model in the catalog
type CreateDeviceRequest struct {
	Brand          string          `json:"brand" binding:"required,min=1,max=100"`
	Model          string          `json:"model" binding:"required,min=1,max=100"`
	Type           string          `json:"type" binding:"required,oneof=BTE RIC ITE CIC BONE"`
	ListPrice      decimal.Decimal `json:"list_price" binding:"required"`
	SGKBarcode     string          `json:"sgk_barcode" binding:"max=50"`
	Channels       int             `json:"channels" binding:"min=0,max=128"`
	TrialDays      int             `json:"trial_days" binding:"min=0,max=365"`
	WarrantyMonths int             `json:"warranty_months" binding:"min=0,max=120"`
}

// ChangeListPriceRequest updates the catalog price
type ChangeListPriceRequest struct {
	ListPrice decimal.Decimal `json:"list_price" binding:"required"`
}

// UpdateSpecsRequest updates technical attributes
type UpdateSpecsRequest struct {
	SGKBarcode     *string `json:"sgk_barcode"`
	Channels       *int    `json:"channels" binding:"omitempty,min=0,max=128"`
	TrialDays      *int    `json:"trial_days" binding:"omitempty,min=0,max=365"`
	WarrantyMonths *int    `json:"warranty_months" binding:"omitempty,min=0,max=120"`
}

// DeviceResponse represents a catalog device in API responses
type DeviceResponse struct {
	ID             uuid.UUID            `json:"id"`
	Brand          string               `json:"brand"`
	Model          string               `json:"model"`
	DisplayName    string               `json:"display_name"`
	Type           catalog.DeviceType   `json:"type"`
	ListPrice      decimal.Decimal      `json:"list_price"`
	Currency       string               `json:"currency"`
	SGKBarcode     string               `json:"sgk_barcode,omitempty"`
	Channels       int                  `json:"channels"`
	TrialDays      int                  `json:"trial_days"`
	WarrantyMonths int                  `json:"warranty_months"`
	Status         catalog.DeviceStatus `json:"status"`
	Sellable       bool                 `json:"sellable"`
	Version        int                  `json:"version"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// DeviceListResponse represents a paginated list of devices
type DeviceListResponse struct {
	Devices []DeviceResponse `json:"devices"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// ToDeviceResponse converts a device aggregate to a response DTO
func ToDeviceResponse(d *catalog.HearingDevice) DeviceResponse {
	return DeviceResponse{
		ID:             d.ID,
		Brand:          d.Brand,
		Model:          d.Model,
		DisplayName:    d.DisplayName(),
		Type:           d.Type,
		ListPrice:      d.ListPrice.Amount(),
		Currency:       string(d.ListPrice.Currency()),
		SGKBarcode:     d.SGKBarcode,
		Channels:       d.Channels,
		TrialDays:      d.TrialDays,
		WarrantyMonths: d.WarrantyMonths,
		Status:         d.Status,
		Sellable:       d.IsSellable(),
		Version:        d.Version,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
