package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPatientRepository implements PatientRepository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByIDForTenant finds a patient by ID within a tenant
func (r *GormPatientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*patient.Patient, error) {
	var model models.PatientModel
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

// FindByTCKN finds a patient by national ID within a tenant
func (r *GormPatientRepository) FindByTCKN(ctx context.Context, tenantID uuid.UUID, tckn string) (*patient.Patient, error) {
	if tckn == "" {
		return nil, shared.NewDomainError("INVALID_TCKN", "TCKN cannot be empty")
	}
	var model models.PatientModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND tckn = ?", tenantID, tckn).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all patients for a tenant
func (r *GormPatientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*patient.Patient, error) {
	var patientModels []models.PatientModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PatientModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&patientModels).Error; err != nil {
		return nil, err
	}

	patients := make([]*patient.Patient, len(patientModels))
	for i := range patientModels {
		patients[i] = patientModels[i].ToDomain()
	}
	return patients, nil
}

// Search finds patients whose name, TCKN or phone matches the query string
func (r *GormPatientRepository) Search(ctx context.Context, tenantID uuid.UUID, query string, filter shared.Filter) ([]*patient.Patient, error) {
	filter.Search = query
	return r.FindAllForTenant(ctx, tenantID, filter)
}

// Save creates or updates a patient
func (r *GormPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	model := models.PatientModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes a patient within a tenant
func (r *GormPatientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PatientModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts patients for a tenant
func (r *GormPatientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PatientModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPatientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PatientSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPatientRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR tckn ILIKE ? OR phone ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "sgk_status":
			query = query.Where("sgk_status = ?", value)
		}
	}

	return query
}

// Ensure GormPatientRepository implements PatientRepository
var _ patient.PatientRepository = (*GormPatientRepository)(nil)
