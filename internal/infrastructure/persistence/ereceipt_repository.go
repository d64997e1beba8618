package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/insurance"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEReceiptRepository implements EReceiptRepository using GORM
type GormEReceiptRepository struct {
	db *gorm.DB
}

// NewGormEReceiptRepository creates a new GormEReceiptRepository
func NewGormEReceiptRepository(db *gorm.DB) *GormEReceiptRepository {
	return &GormEReceiptRepository{db: db}
}

// FindByIDForTenant finds an e-receipt by ID within a tenant
func (r *GormEReceiptRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*insurance.EReceipt, error) {
	var model models.EReceiptModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByReceiptNumber finds an e-receipt by its number within a tenant
func (r *GormEReceiptRepository) FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*insurance.EReceipt, error) {
	var model models.EReceiptModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND receipt_number = ?", tenantID, receiptNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAllForTenant finds all e-receipts for a tenant
func (r *GormEReceiptRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*insurance.EReceipt, error) {
	var receiptModels []models.EReceiptModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.EReceiptModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(receiptModels)
}

// FindByStatus finds e-receipts in a given lifecycle status
func (r *GormEReceiptRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status insurance.EReceiptStatus, filter shared.Filter) ([]*insurance.EReceipt, error) {
	var receiptModels []models.EReceiptModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.EReceiptModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(receiptModels)
}

// FindByPatient finds e-receipts matched to a patient
func (r *GormEReceiptRepository) FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*insurance.EReceipt, error) {
	var receiptModels []models.EReceiptModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND matched_patient_id = ?", tenantID, patientID).
		Order("issued_at DESC").
		Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(receiptModels)
}

// Save creates or updates an e-receipt
func (r *GormEReceiptRepository) Save(ctx context.Context, receipt *insurance.EReceipt) error {
	model, err := models.EReceiptModelFromDomain(receipt)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes an e-receipt within a tenant
func (r *GormEReceiptRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EReceiptModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts e-receipts for a tenant
func (r *GormEReceiptRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.EReceiptModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormEReceiptRepository) toDomainSlice(receiptModels []models.EReceiptModel) ([]*insurance.EReceipt, error) {
	receipts := make([]*insurance.EReceipt, len(receiptModels))
	for i := range receiptModels {
		receipt, err := receiptModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		receipts[i] = receipt
	}
	return receipts, nil
}

// applyFilter applies filter options to the query
func (r *GormEReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, EReceiptSortFields, "issued_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormEReceiptRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("receipt_number ILIKE ? OR patient_text ILIKE ? OR tckn_text ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "matched_patient_id":
			query = query.Where("matched_patient_id = ?", value)
		case "valid_until_before":
			query = query.Where("valid_until < ?", value)
		}
	}

	return query
}

// Ensure GormEReceiptRepository implements EReceiptRepository
var _ insurance.EReceiptRepository = (*GormEReceiptRepository)(nil)
