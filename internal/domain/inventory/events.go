package inventory

import (
	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockUnit = "StockUnit"

// Event type constants
const (
	EventTypeStockReceived  = "StockReceived"
	EventTypeStockDelivered = "StockDelivered"
)

// StockReceivedEvent is raised when a unit is booked into stock
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	StockUnitID  uuid.UUID `json:"stock_unit_id"`
	DeviceID     uuid.UUID `json:"device_id"`
	SerialNumber string    `json:"serial_number"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(u *StockUnit) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeStockUnit, u.ID, u.TenantID),
		StockUnitID:     u.ID,
		DeviceID:        u.DeviceID,
		SerialNumber:    u.SerialNumber,
	}
}

// EventType returns the event type name
func (e *StockReceivedEvent) EventType() string {
	return EventTypeStockReceived
}

// StockDeliveredEvent is raised when a unit is handed to a patient
type StockDeliveredEvent struct {
	shared.BaseDomainEvent
	StockUnitID  uuid.UUID `json:"stock_unit_id"`
	DeviceID     uuid.UUID `json:"device_id"`
	SerialNumber string    `json:"serial_number"`
	PatientID    uuid.UUID `json:"patient_id"`
}

// NewStockDeliveredEvent creates a new StockDeliveredEvent
func NewStockDeliveredEvent(u *StockUnit) *StockDeliveredEvent {
	e := &StockDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDelivered, AggregateTypeStockUnit, u.ID, u.TenantID),
		StockUnitID:     u.ID,
		DeviceID:        u.DeviceID,
		SerialNumber:    u.SerialNumber,
	}
	if u.DeliveredToID != nil {
		e.PatientID = *u.DeliveredToID
	}
	return e
}

// EventType returns the event type name
func (e *StockDeliveredEvent) EventType() string {
	return EventTypeStockDelivered
}
