package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// StockStatus represents the physical unit lifecycle
type StockStatus string

const (
	StockStatusInStock   StockStatus = "IN_STOCK"
	StockStatusReserved  StockStatus = "RESERVED"  // held for a finalized quote
	StockStatusDelivered StockStatus = "DELIVERED" // handed to the patient
	StockStatusReturned  StockStatus = "RETURNED"  // came back within the trial window
	StockStatusInRepair  StockStatus = "IN_REPAIR"
	StockStatusScrapped  StockStatus = "SCRAPPED"
)

// CanTransitionTo checks if the status can transition to the target status
func (s StockStatus) CanTransitionTo(target StockStatus) bool {
	switch s {
	case StockStatusInStock:
		return target == StockStatusReserved || target == StockStatusInRepair || target == StockStatusScrapped
	case StockStatusReserved:
		return target == StockStatusDelivered || target == StockStatusInStock
	case StockStatusDelivered:
		return target == StockStatusReturned || target == StockStatusInRepair
	case StockStatusReturned:
		return target == StockStatusInStock || target == StockStatusScrapped
	case StockStatusInRepair:
		return target == StockStatusInStock || target == StockStatusDelivered || target == StockStatusScrapped
	case StockStatusScrapped:
		return false
	}
	return false
}

// StockUnit is the aggregate root for one physical, serial-numbered device.
// Serial numbers are unique per tenant; the repository enforces it.
type StockUnit struct {
	shared.TenantAggregateRoot
	DeviceID     uuid.UUID
	SerialNumber string
	Status       StockStatus
	ReceivedAt   time.Time

	ReservedForQuoteID *uuid.UUID
	DeliveredToID      *uuid.UUID // patient
	DeliveredAt        *time.Time
	RepairNote         string
}

// NewStockUnit books a physical device into stock
func NewStockUnit(tenantID, deviceID uuid.UUID, serialNumber string, receivedAt time.Time) (*StockUnit, error) {
	if deviceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEVICE", "Device ID cannot be empty")
	}
	serialNumber = strings.TrimSpace(serialNumber)
	if serialNumber == "" {
		return nil, shared.NewDomainError("INVALID_SERIAL", "Serial number cannot be empty")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	u := &StockUnit{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DeviceID:            deviceID,
		SerialNumber:        serialNumber,
		Status:              StockStatusInStock,
		ReceivedAt:          receivedAt,
	}
	u.AddDomainEvent(NewStockReceivedEvent(u))
	return u, nil
}

// Reserve holds the unit for a finalized quote
func (u *StockUnit) Reserve(quoteID uuid.UUID) error {
	if quoteID == uuid.Nil {
		return shared.NewDomainError("INVALID_QUOTE", "Quote ID cannot be empty")
	}
	if !u.Status.CanTransitionTo(StockStatusReserved) {
		return shared.ErrOutOfStock
	}
	u.Status = StockStatusReserved
	u.ReservedForQuoteID = &quoteID
	u.Touch()
	return nil
}

// ReleaseReservation returns a reserved unit to stock, e.g. when the
// quote is cancelled before delivery
func (u *StockUnit) ReleaseReservation() error {
	if u.Status != StockStatusReserved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot release unit in %s status", u.Status))
	}
	u.Status = StockStatusInStock
	u.ReservedForQuoteID = nil
	u.Touch()
	return nil
}

// Deliver hands the unit to a patient
func (u *StockUnit) Deliver(patientID uuid.UUID, at time.Time) error {
	if patientID == uuid.Nil {
		return shared.NewDomainError("INVALID_PATIENT", "Patient ID cannot be empty")
	}
	if !u.Status.CanTransitionTo(StockStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver unit in %s status", u.Status))
	}
	if at.IsZero() {
		at = time.Now()
	}
	u.Status = StockStatusDelivered
	u.DeliveredToID = &patientID
	u.DeliveredAt = &at
	u.Touch()
	u.AddDomainEvent(NewStockDeliveredEvent(u))
	return nil
}

// Return takes a delivered unit back within the trial window
func (u *StockUnit) Return() error {
	if !u.Status.CanTransitionTo(StockStatusReturned) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot return unit in %s status", u.Status))
	}
	u.Status = StockStatusReturned
	u.Touch()
	return nil
}

// Restock puts a returned unit back on the shelf after inspection
func (u *StockUnit) Restock() error {
	if u.Status != StockStatusReturned {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot restock unit in %s status", u.Status))
	}
	u.Status = StockStatusInStock
	u.ReservedForQuoteID = nil
	u.DeliveredToID = nil
	u.DeliveredAt = nil
	u.Touch()
	return nil
}

// SendToRepair moves the unit into service
func (u *StockUnit) SendToRepair(note string) error {
	if !u.Status.CanTransitionTo(StockStatusInRepair) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send unit in %s status to repair", u.Status))
	}
	u.Status = StockStatusInRepair
	u.RepairNote = note
	u.Touch()
	return nil
}

// CompleteRepair returns a repaired unit. A unit that was with a patient
// goes back to the patient, otherwise to stock.
func (u *StockUnit) CompleteRepair() error {
	if u.Status != StockStatusInRepair {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Unit in %s status is not in repair", u.Status))
	}
	if u.DeliveredToID != nil {
		u.Status = StockStatusDelivered
	} else {
		u.Status = StockStatusInStock
	}
	u.RepairNote = ""
	u.Touch()
	return nil
}

// Scrap writes the unit off
func (u *StockUnit) Scrap() error {
	if !u.Status.CanTransitionTo(StockStatusScrapped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot scrap unit in %s status", u.Status))
	}
	u.Status = StockStatusScrapped
	u.Touch()
	return nil
}

// IsAvailable reports whether the unit can be reserved for a sale
func (u *StockUnit) IsAvailable() bool {
	return u.Status == StockStatusInStock
}
