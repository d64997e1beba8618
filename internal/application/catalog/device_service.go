package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/catalog"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// DeviceService handles device catalog business operations
type DeviceService struct {
	deviceRepo catalog.DeviceRepository
}

// NewDeviceService creates a new DeviceService
func NewDeviceService(deviceRepo catalog.DeviceRepository) *DeviceService {
	return &DeviceService{
		deviceRepo: deviceRepo,
	}
}

// Create registers a device model. Brand plus model must be unique per tenant.
func (s *DeviceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateDeviceRequest) (*DeviceResponse, error) {
	existing, err := s.deviceRepo.FindByBrandModel(ctx, tenantID, req.Brand, req.Model)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DEVICE_EXISTS", "This brand and model is already in the catalog")
	}

	device, err := catalog.NewHearingDevice(tenantID, req.Brand, req.Model, catalog.DeviceType(req.Type), valueobject.NewMoneyTRY(req.ListPrice))
	if err != nil {
		return nil, err
	}
	if req.SGKBarcode != "" {
		device.SetSGKBarcode(req.SGKBarcode)
	}
	if req.Channels > 0 || req.TrialDays > 0 || req.WarrantyMonths > 0 {
		warranty := device.WarrantyMonths
		if req.WarrantyMonths > 0 {
			warranty = req.WarrantyMonths
		}
		if err := device.SetSpecs(req.Channels, req.TrialDays, warranty); err != nil {
			return nil, err
		}
	}

	if err := s.deviceRepo.Save(ctx, device); err != nil {
		return nil, err
	}
	response := ToDeviceResponse(device)
	return &response, nil
}

// GetByID retrieves a device by ID
func (s *DeviceService) GetByID(ctx context.Context, tenantID, deviceID uuid.UUID) (*DeviceResponse, error) {
	device, err := s.deviceRepo.FindByIDForTenant(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}
	response := ToDeviceResponse(device)
	return &response, nil
}

// List returns catalog devices for a tenant with pagination
func (s *DeviceService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*DeviceListResponse, error) {
	devices, err := s.deviceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.deviceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]DeviceResponse, len(devices))
	for i, d := range devices {
		responses[i] = ToDeviceResponse(d)
	}
	return &DeviceListResponse{
		Devices: responses,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.PageSize,
	}, nil
}

// ListSellable returns only models that can appear on new quotes
func (s *DeviceService) ListSellable(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]DeviceResponse, error) {
	devices, err := s.deviceRepo.FindSellable(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]DeviceResponse, len(devices))
	for i, d := range devices {
		responses[i] = ToDeviceResponse(d)
	}
	return responses, nil
}

// ChangeListPrice updates the catalog price
func (s *DeviceService) ChangeListPrice(ctx context.Context, tenantID, deviceID uuid.UUID, req ChangeListPriceRequest) (*DeviceResponse, error) {
	return s.mutate(ctx, tenantID, deviceID, func(d *catalog.HearingDevice) error {
		return d.ChangeListPrice(valueobject.NewMoneyTRY(req.ListPrice))
	})
}

// UpdateSpecs patches technical attributes
func (s *DeviceService) UpdateSpecs(ctx context.Context, tenantID, deviceID uuid.UUID, req UpdateSpecsRequest) (*DeviceResponse, error) {
	return s.mutate(ctx, tenantID, deviceID, func(d *catalog.HearingDevice) error {
		if req.SGKBarcode != nil {
			d.SetSGKBarcode(*req.SGKBarcode)
		}
		channels := d.Channels
		trialDays := d.TrialDays
		warranty := d.WarrantyMonths
		if req.Channels != nil {
			channels = *req.Channels
		}
		if req.TrialDays != nil {
			trialDays = *req.TrialDays
		}
		if req.WarrantyMonths != nil {
			warranty = *req.WarrantyMonths
		}
		return d.SetSpecs(channels, trialDays, warranty)
	})
}

// Discontinue removes the model from sale
func (s *DeviceService) Discontinue(ctx context.Context, tenantID, deviceID uuid.UUID) (*DeviceResponse, error) {
	return s.mutate(ctx, tenantID, deviceID, func(d *catalog.HearingDevice) error {
		return d.Discontinue()
	})
}

func (s *DeviceService) mutate(ctx context.Context, tenantID, deviceID uuid.UUID, fn func(*catalog.HearingDevice) error) (*DeviceResponse, error) {
	device, err := s.deviceRepo.FindByIDForTenant(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}
	if err := fn(device); err != nil {
		return nil, err
	}
	if err := s.deviceRepo.Save(ctx, device); err != nil {
		return nil, err
	}
	response := ToDeviceResponse(device)
	return &response, nil
}
