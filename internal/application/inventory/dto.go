package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/inventory"
)

// ReceiveStockRequest books physical devices into stock
type ReceiveStockRequest struct {
	DeviceID      uuid.UUID `json:"device_id" binding:"required"`
	SerialNumbers []string  `json:"serial_numbers" binding:"required,min=1,dive,min=1,max=100"`
	ReceivedAt    time.Time `json:"received_at"`
}

// ReserveStockRequest holds an available unit for a finalized quote
type ReserveStockRequest struct {
	DeviceID uuid.UUID `json:"device_id" binding:"required"`
	QuoteID  uuid.UUID `json:"quote_id" binding:"required"`
}

// DeliverStockRequest hands a reserved unit to a patient
type DeliverStockRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// SendToRepairRequest moves a unit into service
type SendToRepairRequest struct {
	Note string `json:"note" binding:"max=1000"`
}

// StockUnitResponse represents a stock unit in API responses
type StockUnitResponse struct {
	ID                 uuid.UUID             `json:"id"`
	DeviceID           uuid.UUID             `json:"device_id"`
	SerialNumber       string                `json:"serial_number"`
	Status             inventory.StockStatus `json:"status"`
	ReceivedAt         time.Time             `json:"received_at"`
	ReservedForQuoteID *uuid.UUID            `json:"reserved_for_quote_id,omitempty"`
	DeliveredToID      *uuid.UUID            `json:"delivered_to_id,omitempty"`
	DeliveredAt        *time.Time            `json:"delivered_at,omitempty"`
	RepairNote         string                `json:"repair_note,omitempty"`
	Available          bool                  `json:"available"`
	Version            int                   `json:"version"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// StockLevelResponse reports availability for one device model
type StockLevelResponse struct {
	DeviceID  uuid.UUID `json:"device_id"`
	Available int64     `json:"available"`
}

// ToStockUnitResponse converts a stock unit aggregate to a response DTO
func ToStockUnitResponse(u *inventory.StockUnit) StockUnitResponse {
	return StockUnitResponse{
		ID:                 u.ID,
		DeviceID:           u.DeviceID,
		SerialNumber:       u.SerialNumber,
		Status:             u.Status,
		ReceivedAt:         u.ReceivedAt,
		ReservedForQuoteID: u.ReservedForQuoteID,
		DeliveredToID:      u.DeliveredToID,
		DeliveredAt:        u.DeliveredAt,
		RepairNote:         u.RepairNote,
		Available:          u.IsAvailable(),
		Version:            u.Version,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
