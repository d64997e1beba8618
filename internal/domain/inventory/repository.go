package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// StockUnitRepository is the persistence interface for stock units.
// Save must reject a serial number already used within the tenant with
// shared.ErrSerialInUse.
type StockUnitRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockUnit, error)
	FindBySerial(ctx context.Context, tenantID uuid.UUID, serialNumber string) (*StockUnit, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*StockUnit, error)
	FindByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]*StockUnit, error)
	FindAvailableByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]*StockUnit, error)
	CountAvailableByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) (int64, error)
	Save(ctx context.Context, unit *StockUnit) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
