package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/billing"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentPlanRepository implements PaymentPlanRepository using GORM
type GormPaymentPlanRepository struct {
	db *gorm.DB
}

// NewGormPaymentPlanRepository creates a new GormPaymentPlanRepository
func NewGormPaymentPlanRepository(db *gorm.DB) *GormPaymentPlanRepository {
	return &GormPaymentPlanRepository{db: db}
}

// FindByIDForTenant finds a payment plan by ID within a tenant
func (r *GormPaymentPlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.PaymentPlan, error) {
	var model models.PaymentPlanModel
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

// FindByInvoice finds the payment plan attached to an invoice, if any
func (r *GormPaymentPlanRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*billing.PaymentPlan, error) {
	var model models.PaymentPlanModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save creates or updates a payment plan
func (r *GormPaymentPlanRepository) Save(ctx context.Context, plan *billing.PaymentPlan) error {
	model, err := models.PaymentPlanModelFromDomain(plan)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPaymentPlanRepository implements PaymentPlanRepository
var _ billing.PaymentPlanRepository = (*GormPaymentPlanRepository)(nil)
