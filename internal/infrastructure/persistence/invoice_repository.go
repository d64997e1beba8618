package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/billing"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// invoiceNumberPrefix is the fixed part of every invoice number
const invoiceNumberPrefix = "XE"

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
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

// FindByInvoiceNumber finds an invoice by its number within a tenant
func (r *GormInvoiceRepository) FindByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, invoiceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByQuote finds the invoice issued from a quote, if any
func (r *GormInvoiceRepository) FindByQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAllForTenant finds all invoices for a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(invoiceModels)
}

// FindByPatient finds all invoices for a patient, newest first
func (r *GormInvoiceRepository) FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND patient_id = ?", tenantID, patientID).
		Order("issued_at DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(invoiceModels)
}

// FindOverdue finds invoices past their due date that still carry an open
// patient balance
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
			Where("tenant_id = ? AND due_at < ?", tenantID, time.Now()).
			Where("status IN ?", []billing.InvoiceStatus{
				billing.InvoiceStatusIssued,
				billing.InvoiceStatusPartially,
			}),
		filter,
	)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(invoiceModels)
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model, err := models.InvoiceModelFromDomain(invoice)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// CountForTenant counts invoices for a tenant
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateInvoiceNumber issues the next sequential number in the XE-YYYY-NNNNN
// format, per tenant and year
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", invoiceNumberPrefix, year)

	var last models.InvoiceModel
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND invoice_number LIKE ?", tenantID, prefix+"%").
		Order("invoice_number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.InvoiceNumber != "" {
		parts := strings.Split(last.InvoiceNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	invoiceNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.existsByInvoiceNumber(ctx, tenantID, invoiceNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			invoiceNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.existsByInvoiceNumber(ctx, tenantID, invoiceNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
		if exists {
			return "", fmt.Errorf("failed to generate a unique invoice number after 100 attempts")
		}
	}

	return invoiceNumber, nil
}

func (r *GormInvoiceRepository) existsByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, invoiceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormInvoiceRepository) toDomainSlice(invoiceModels []models.InvoiceModel) ([]*billing.Invoice, error) {
	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoice, err := invoiceModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		invoices[i] = invoice
	}
	return invoices, nil
}

// applyFilter applies filter options to the query
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "issued_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR patient_name ILIKE ? OR patient_tckn ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "patient_id":
			query = query.Where("patient_id = ?", value)
		case "efatura_status":
			query = query.Where("efatura_status = ?", value)
		case "issued_from":
			query = query.Where("issued_at >= ?", value)
		case "issued_to":
			query = query.Where("issued_at < ?", value)
		}
	}

	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
