package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/inventory"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockUnitRepository implements StockUnitRepository using GORM
type GormStockUnitRepository struct {
	db *gorm.DB
}

// NewGormStockUnitRepository creates a new GormStockUnitRepository
func NewGormStockUnitRepository(db *gorm.DB) *GormStockUnitRepository {
	return &GormStockUnitRepository{db: db}
}

// FindByIDForTenant finds a stock unit by ID within a tenant
func (r *GormStockUnitRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockUnit, error) {
	var model models.StockUnitModel
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

// FindBySerial finds a stock unit by serial number within a tenant
func (r *GormStockUnitRepository) FindBySerial(ctx context.Context, tenantID uuid.UUID, serialNumber string) (*inventory.StockUnit, error) {
	serialNumber = strings.TrimSpace(serialNumber)
	if serialNumber == "" {
		return nil, shared.NewDomainError("INVALID_SERIAL", "Serial number cannot be empty")
	}
	var model models.StockUnitModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND serial_number = ?", tenantID, serialNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all stock units for a tenant
func (r *GormStockUnitRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.StockUnit, error) {
	var unitModels []models.StockUnitModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.StockUnitModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&unitModels).Error; err != nil {
		return nil, err
	}

	units := make([]*inventory.StockUnit, len(unitModels))
	for i := range unitModels {
		units[i] = unitModels[i].ToDomain()
	}
	return units, nil
}

// FindByDevice finds all stock units of a device model within a tenant
func (r *GormStockUnitRepository) FindByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]*inventory.StockUnit, error) {
	var unitModels []models.StockUnitModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND device_id = ?", tenantID, deviceID).
		Order("received_at ASC").
		Find(&unitModels).Error; err != nil {
		return nil, err
	}

	units := make([]*inventory.StockUnit, len(unitModels))
	for i := range unitModels {
		units[i] = unitModels[i].ToDomain()
	}
	return units, nil
}

// FindAvailableByDevice finds unreserved in-stock units of a device model,
// oldest received first so reservations consume stock FIFO.
func (r *GormStockUnitRepository) FindAvailableByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]*inventory.StockUnit, error) {
	var unitModels []models.StockUnitModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND device_id = ? AND status = ?", tenantID, deviceID, inventory.StockStatusInStock).
		Order("received_at ASC").
		Find(&unitModels).Error; err != nil {
		return nil, err
	}

	units := make([]*inventory.StockUnit, len(unitModels))
	for i := range unitModels {
		units[i] = unitModels[i].ToDomain()
	}
	return units, nil
}

// CountAvailableByDevice counts unreserved in-stock units of a device model
func (r *GormStockUnitRepository) CountAvailableByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StockUnitModel{}).
		Where("tenant_id = ? AND device_id = ? AND status = ?", tenantID, deviceID, inventory.StockStatusInStock).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a stock unit. A serial number already registered to
// another unit in the same tenant is rejected with shared.ErrSerialInUse; the
// per-tenant unique index backs the check against concurrent inserts.
func (r *GormStockUnitRepository) Save(ctx context.Context, unit *inventory.StockUnit) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StockUnitModel{}).
		Where("tenant_id = ? AND serial_number = ? AND id <> ?", unit.TenantID, unit.SerialNumber, unit.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrSerialInUse
	}

	model := models.StockUnitModelFromDomain(unit)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrSerialInUse
		}
		return err
	}
	return nil
}

// DeleteForTenant deletes a stock unit within a tenant
func (r *GormStockUnitRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StockUnitModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormStockUnitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockUnitSortFields, "received_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockUnitRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("serial_number ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "device_id":
			query = query.Where("device_id = ?", value)
		case "reserved_for_quote_id":
			query = query.Where("reserved_for_quote_id = ?", value)
		}
	}

	return query
}

// isUniqueViolation reports whether the error is a unique constraint failure.
// GORM's postgres driver does not translate these, so the check is textual.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "SQLSTATE 23505")
}

// Ensure GormStockUnitRepository implements StockUnitRepository
var _ inventory.StockUnitRepository = (*GormStockUnitRepository)(nil)
