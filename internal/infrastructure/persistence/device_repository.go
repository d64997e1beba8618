package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/catalog"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDeviceRepository implements DeviceRepository using GORM
type GormDeviceRepository struct {
	db *gorm.DB
}

// NewGormDeviceRepository creates a new GormDeviceRepository
func NewGormDeviceRepository(db *gorm.DB) *GormDeviceRepository {
	return &GormDeviceRepository{db: db}
}

// FindByIDForTenant finds a device model by ID within a tenant
func (r *GormDeviceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.HearingDevice, error) {
	var model models.DeviceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all catalog entries for a tenant
func (r *GormDeviceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*catalog.HearingDevice, error) {
	var deviceModels []models.DeviceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DeviceModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&deviceModels).Error; err != nil {
		return nil, err
	}

	devices := make([]*catalog.HearingDevice, len(deviceModels))
	for i := range deviceModels {
		devices[i] = deviceModels[i].ToDomain()
	}
	return devices, nil
}

// FindByBrandModel finds a device by its brand and model name within a tenant
func (r *GormDeviceRepository) FindByBrandModel(ctx context.Context, tenantID uuid.UUID, brand, model string) (*catalog.HearingDevice, error) {
	var deviceModel models.DeviceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND brand = ? AND model = ?", tenantID, strings.TrimSpace(brand), strings.TrimSpace(model)).
		First(&deviceModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return deviceModel.ToDomain(), nil
}

// FindSellable finds active catalog entries for a tenant
func (r *GormDeviceRepository) FindSellable(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*catalog.HearingDevice, error) {
	var deviceModels []models.DeviceModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DeviceModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, catalog.DeviceStatusActive),
		filter,
	)

	if err := query.Find(&deviceModels).Error; err != nil {
		return nil, err
	}

	devices := make([]*catalog.HearingDevice, len(deviceModels))
	for i := range deviceModels {
		devices[i] = deviceModels[i].ToDomain()
	}
	return devices, nil
}

// Save creates or updates a device catalog entry
func (r *GormDeviceRepository) Save(ctx context.Context, device *catalog.HearingDevice) error {
	model := models.DeviceModelFromDomain(device)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes a device catalog entry within a tenant
func (r *GormDeviceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DeviceModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts device catalog entries for a tenant
func (r *GormDeviceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.DeviceModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormDeviceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DeviceSortFields, "brand")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if filter.OrderBy == "" {
		return query.Order("brand ASC, model ASC")
	}
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDeviceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("brand ILIKE ? OR model ILIKE ? OR sgk_barcode ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "brand":
			query = query.Where("brand = ?", value)
		}
	}

	return query
}

// Ensure GormDeviceRepository implements DeviceRepository
var _ catalog.DeviceRepository = (*GormDeviceRepository)(nil)
