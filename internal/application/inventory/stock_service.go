package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/inventory"
	"github.com/xear/backend/internal/domain/shared"
)

// StockService handles serialized stock business operations
type StockService struct {
	stockRepo      inventory.StockUnitRepository
	eventPublisher shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(stockRepo inventory.StockUnitRepository) *StockService {
	return &StockService{
		stockRepo: stockRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Receive books physical devices into stock, one unit per serial number.
// Duplicate serials within the tenant are rejected by the repository.
func (s *StockService) Receive(ctx context.Context, tenantID uuid.UUID, req ReceiveStockRequest) ([]StockUnitResponse, error) {
	responses := make([]StockUnitResponse, 0, len(req.SerialNumbers))
	for _, serial := range req.SerialNumbers {
		unit, err := inventory.NewStockUnit(tenantID, req.DeviceID, serial, req.ReceivedAt)
		if err != nil {
			return nil, err
		}
		if err := s.stockRepo.Save(ctx, unit); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, unit)
		responses = append(responses, ToStockUnitResponse(unit))
	}
	return responses, nil
}

// GetByID retrieves a stock unit by ID
func (s *StockService) GetByID(ctx context.Context, tenantID, unitID uuid.UUID) (*StockUnitResponse, error) {
	unit, err := s.stockRepo.FindByIDForTenant(ctx, tenantID, unitID)
	if err != nil {
		return nil, err
	}
	response := ToStockUnitResponse(unit)
	return &response, nil
}

// GetBySerial retrieves a stock unit by serial number
func (s *StockService) GetBySerial(ctx context.Context, tenantID uuid.UUID, serialNumber string) (*StockUnitResponse, error) {
	unit, err := s.stockRepo.FindBySerial(ctx, tenantID, serialNumber)
	if err != nil {
		return nil, err
	}
	response := ToStockUnitResponse(unit)
	return &response, nil
}

// ListByDevice returns all units of one device model
func (s *StockService) ListByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]StockUnitResponse, error) {
	units, err := s.stockRepo.FindByDevice(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}
	responses := make([]StockUnitResponse, len(units))
	for i, u := range units {
		responses[i] = ToStockUnitResponse(u)
	}
	return responses, nil
}

// StockLevel reports how many units of the device are available for sale
func (s *StockService) StockLevel(ctx context.Context, tenantID, deviceID uuid.UUID) (*StockLevelResponse, error) {
	count, err := s.stockRepo.CountAvailableByDevice(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}
	return &StockLevelResponse{DeviceID: deviceID, Available: count}, nil
}

// Reserve holds the oldest available unit of the device for a quote.
// Returns shared.ErrOutOfStock when no unit is available.
func (s *StockService) Reserve(ctx context.Context, tenantID uuid.UUID, req ReserveStockRequest) (*StockUnitResponse, error) {
	units, err := s.stockRepo.FindAvailableByDevice(ctx, tenantID, req.DeviceID)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, shared.ErrOutOfStock
	}

	unit := units[0]
	if err := unit.Reserve(req.QuoteID); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	response := ToStockUnitResponse(unit)
	return &response, nil
}

// ReleaseReservation returns a reserved unit to stock
func (s *StockService) ReleaseReservation(ctx context.Context, tenantID, unitID uuid.UUID) (*StockUnitResponse, error) {
	return s.mutate(ctx, tenantID, unitID, func(u *inventory.StockUnit) error {
		return u.ReleaseReservation()
	})
}

// Deliver hands a reserved unit to the patient
func (s *StockService) Deliver(ctx context.Context, tenantID, unitID uuid.UUID, req DeliverStockRequest) (*StockUnitResponse, error) {
	return s.mutate(ctx, tenantID, unitID, func(u *inventory.StockUnit) error {
		return u.Deliver(req.PatientID, req.DeliveredAt)
	})
}

// Return takes a delivered unit back within the trial window
func (s *StockService) Return(ctx context.Context, tenantID, unitID uuid.UUID) (*StockUnitResponse, error) {
	return s.mutate(ctx, tenantID, unitID, func(u *inventory.StockUnit) error {
		return u.Return()
	})
}

// Restock puts a returned unit back on the shelf
func (s *StockService) Restock(ctx context.Context, tenantID, unitID uuid.UUID) (*StockUnitResponse, error) {
	return s.mutate(ctx, tenantID, unitID, func(u *inventory.StockUnit) error {
		return u.Restock()
	})
}

// SendToRepair moves the unit into service
func (s *StockService) SendToRepair(ctx context.Context, tenantID, unitID uuid.UUID, req SendToRepairRequest) (*StockUnitResponse, error) {
	return s.mutate(ctx, tenantID, unitID, func(u *inventory.StockUnit) error {
		return u.SendToRepair(req.Note)
	})
}

// CompleteRepair finishes service on the unit
func (s *StockService) CompleteRepair(ctx context.Context, tenantID, unitID uuid.UUID) (*StockUnitResponse, error) {
	return s.mutate(ctx, tenantID, unitID, func(u *inventory.StockUnit) error {
		return u.CompleteRepair()
	})
}

// Scrap writes the unit off
func (s *StockService) Scrap(ctx context.Context, tenantID, unitID uuid.UUID) (*StockUnitResponse, error) {
	return s.mutate(ctx, tenantID, unitID, func(u *inventory.StockUnit) error {
		return u.Scrap()
	})
}

func (s *StockService) mutate(ctx context.Context, tenantID, unitID uuid.UUID, fn func(*inventory.StockUnit) error) (*StockUnitResponse, error) {
	unit, err := s.stockRepo.FindByIDForTenant(ctx, tenantID, unitID)
	if err != nil {
		return nil, err
	}
	if err := fn(unit); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, unit)
	response := ToStockUnitResponse(unit)
	return &response, nil
}

func (s *StockService) publishEvents(ctx context.Context, unit *inventory.StockUnit) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range unit.GetDomainEvents() {
		// event delivery is best effort; handlers are async
		_ = s.eventPublisher.Publish(ctx, event)
	}
	unit.ClearDomainEvents()
}
