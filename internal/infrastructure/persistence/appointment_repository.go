package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/scheduling"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAppointmentRepository implements AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByIDForTenant finds an appointment by ID within a tenant
func (r *GormAppointmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error) {
	var model models.AppointmentModel
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

// FindAllForTenant finds all appointments for a tenant
func (r *GormAppointmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*scheduling.Appointment, error) {
	var appointmentModels []models.AppointmentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AppointmentModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&appointmentModels).Error; err != nil {
		return nil, err
	}

	appointments := make([]*scheduling.Appointment, len(appointmentModels))
	for i := range appointmentModels {
		appointments[i] = appointmentModels[i].ToDomain()
	}
	return appointments, nil
}

// FindByPatient finds all appointments for a patient, newest first
func (r *GormAppointmentRepository) FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*scheduling.Appointment, error) {
	var appointmentModels []models.AppointmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND patient_id = ?", tenantID, patientID).
		Order("start_at DESC").
		Find(&appointmentModels).Error; err != nil {
		return nil, err
	}

	appointments := make([]*scheduling.Appointment, len(appointmentModels))
	for i := range appointmentModels {
		appointments[i] = appointmentModels[i].ToDomain()
	}
	return appointments, nil
}

// FindByClinicianInRange returns non-terminal appointments for the clinician
// whose slots intersect the half-open interval [from, to).
func (r *GormAppointmentRepository) FindByClinicianInRange(ctx context.Context, tenantID, clinicianID uuid.UUID, from, to time.Time) ([]*scheduling.Appointment, error) {
	var appointmentModels []models.AppointmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND clinician_id = ?", tenantID, clinicianID).
		Where("start_at < ? AND end_at > ?", to, from).
		Where("status IN ?", []scheduling.AppointmentStatus{
			scheduling.AppointmentStatusScheduled,
			scheduling.AppointmentStatusConfirmed,
		}).
		Order("start_at ASC").
		Find(&appointmentModels).Error; err != nil {
		return nil, err
	}

	appointments := make([]*scheduling.Appointment, len(appointmentModels))
	for i := range appointmentModels {
		appointments[i] = appointmentModels[i].ToDomain()
	}
	return appointments, nil
}

// Save creates or updates an appointment
func (r *GormAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	model := models.AppointmentModelFromDomain(appointment)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes an appointment within a tenant
func (r *GormAppointmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AppointmentModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts appointments for a tenant
func (r *GormAppointmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.AppointmentModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormAppointmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AppointmentSortFields, "start_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAppointmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("notes ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "clinician_id":
			query = query.Where("clinician_id = ?", value)
		case "patient_id":
			query = query.Where("patient_id = ?", value)
		case "from":
			query = query.Where("start_at >= ?", value)
		case "to":
			query = query.Where("start_at < ?", value)
		}
	}

	return query
}

// Ensure GormAppointmentRepository implements AppointmentRepository
var _ scheduling.AppointmentRepository = (*GormAppointmentRepository)(nil)
