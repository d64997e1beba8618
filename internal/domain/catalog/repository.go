package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// DeviceRepository is the persistence interface for the device catalog
type DeviceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*HearingDevice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*HearingDevice, error)
	FindByBrandModel(ctx context.Context, tenantID uuid.UUID, brand, model string) (*HearingDevice, error)
	FindSellable(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*HearingDevice, error)
	Save(ctx context.Context, device *HearingDevice) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
