package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormQuoteRepository implements QuoteRepository using GORM.
// Line items are replaced wholesale on every save; the aggregate is the unit
// of consistency and items carry no independent lifecycle.
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.SaleQuote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a quote by ID within a tenant
func (r *GormQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pricing.SaleQuote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByQuoteNumber finds a quote by its number within a tenant
func (r *GormQuoteRepository) FindByQuoteNumber(ctx context.Context, tenantID uuid.UUID, quoteNumber string) (*pricing.SaleQuote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("tenant_id = ? AND quote_number = ?", tenantID, quoteNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all quotes for a tenant
func (r *GormQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pricing.SaleQuote, error) {
	var quoteModels []models.QuoteModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.QuoteModel{}).
			Preload("Items", itemOrder).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&quoteModels).Error; err != nil {
		return nil, err
	}

	quotes := make([]pricing.SaleQuote, len(quoteModels))
	for i := range quoteModels {
		quotes[i] = *quoteModels[i].ToDomain()
	}
	return quotes, nil
}

// FindByPatient finds quotes for a patient
func (r *GormQuoteRepository) FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID, filter shared.Filter) ([]pricing.SaleQuote, error) {
	var quoteModels []models.QuoteModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.QuoteModel{}).
			Preload("Items", itemOrder).
			Where("tenant_id = ? AND patient_id = ?", tenantID, patientID),
		filter,
	)

	if err := query.Find(&quoteModels).Error; err != nil {
		return nil, err
	}

	quotes := make([]pricing.SaleQuote, len(quoteModels))
	for i := range quoteModels {
		quotes[i] = *quoteModels[i].ToDomain()
	}
	return quotes, nil
}

// Save creates or updates a quote together with its line items
func (r *GormQuoteRepository) Save(ctx context.Context, quote *pricing.SaleQuote) error {
	model := models.QuoteModelFromDomain(quote)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		return r.replaceItems(tx, model)
	})
}

// SaveWithLock saves a quote with optimistic locking (version check).
// Returns error if the version has changed (concurrent modification).
func (r *GormQuoteRepository) SaveWithLock(ctx context.Context, quote *pricing.SaleQuote) error {
	model := models.QuoteModelFromDomain(quote)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(model).
			Omit("Items").
			Where("id = ? AND version = ?", quote.ID, quote.Version-1).
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The quote has been modified by another transaction")
		}
		return r.replaceItems(tx, model)
	})
}

// replaceItems deletes the stored line items and writes the current set
func (r *GormQuoteRepository) replaceItems(tx *gorm.DB, model *models.QuoteModel) error {
	if err := tx.Where("quote_id = ?", model.ID).Delete(&models.QuoteItemModel{}).Error; err != nil {
		return err
	}
	if len(model.Items) == 0 {
		return nil
	}
	return tx.Create(&model.Items).Error
}

// DeleteForTenant deletes a quote and its line items within a tenant
func (r *GormQuoteRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.QuoteModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("quote_id = ?", id).Delete(&models.QuoteItemModel{}).Error
	})
}

// CountForTenant counts quotes for a tenant
func (r *GormQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.QuoteModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateQuoteNumber issues the next sequential number in the Q-YYYY-NNNNN
// format, per tenant and year
func (r *GormQuoteRepository) GenerateQuoteNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("Q-%d-", year)

	var last models.QuoteModel
	err := r.db.WithContext(ctx).
		Model(&models.QuoteModel{}).
		Where("tenant_id = ? AND quote_number LIKE ?", tenantID, prefix+"%").
		Order("quote_number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.QuoteNumber != "" {
		parts := strings.Split(last.QuoteNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	quoteNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.existsByQuoteNumber(ctx, tenantID, quoteNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			quoteNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.existsByQuoteNumber(ctx, tenantID, quoteNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
		if exists {
			return "", fmt.Errorf("failed to generate a unique quote number after 100 attempts")
		}
	}

	return quoteNumber, nil
}

func (r *GormQuoteRepository) existsByQuoteNumber(ctx context.Context, tenantID uuid.UUID, quoteNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.QuoteModel{}).
		Where("tenant_id = ? AND quote_number = ?", tenantID, quoteNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// itemOrder keeps line items in insertion order when preloaded
func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// applyFilter applies filter options to the query
func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, QuoteSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQuoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("quote_number ILIKE ? OR patient_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "patient_id":
			query = query.Where("patient_id = ?", value)
		case "scheme_id":
			query = query.Where("scheme_id = ?", value)
		case "sgk_eligible":
			query = query.Where("sgk_eligible = ?", value)
		}
	}

	return query
}

// Ensure GormQuoteRepository implements QuoteRepository
var _ pricing.QuoteRepository = (*GormQuoteRepository)(nil)
