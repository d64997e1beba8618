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

// GormSchemeRepository implements SchemeRepository using GORM.
// Only tenant overrides are stored here; the built-in SGK schemes live in
// code and are layered on top by the scheme provider.
type GormSchemeRepository struct {
	db *gorm.DB
}

// NewGormSchemeRepository creates a new GormSchemeRepository
func NewGormSchemeRepository(db *gorm.DB) *GormSchemeRepository {
	return &GormSchemeRepository{db: db}
}

// FindByID finds a scheme override by its identifier within a tenant
func (r *GormSchemeRepository) FindByID(ctx context.Context, tenantID uuid.UUID, schemeID string) (*insurance.Scheme, error) {
	var model models.SchemeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND scheme_id = ?", tenantID, schemeID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll finds all scheme overrides for a tenant
func (r *GormSchemeRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]*insurance.Scheme, error) {
	var schemeModels []models.SchemeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("scheme_id ASC").
		Find(&schemeModels).Error; err != nil {
		return nil, err
	}

	schemes := make([]*insurance.Scheme, len(schemeModels))
	for i := range schemeModels {
		scheme, err := schemeModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		schemes[i] = scheme
	}
	return schemes, nil
}

// Save creates or updates a scheme override for a tenant
func (r *GormSchemeRepository) Save(ctx context.Context, tenantID uuid.UUID, scheme *insurance.Scheme) error {
	model := &models.SchemeModel{}
	if err := model.FromDomain(tenantID, scheme); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a scheme override for a tenant
func (r *GormSchemeRepository) Delete(ctx context.Context, tenantID uuid.UUID, schemeID string) error {
	result := r.db.WithContext(ctx).Delete(&models.SchemeModel{}, "tenant_id = ? AND scheme_id = ?", tenantID, schemeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSchemeRepository implements SchemeRepository
var _ insurance.SchemeRepository = (*GormSchemeRepository)(nil)
