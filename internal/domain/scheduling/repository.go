package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// AppointmentRepository is the persistence interface for appointments
type AppointmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Appointment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Appointment, error)
	FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*Appointment, error)
	// FindByClinicianInRange returns non-terminal appointments for the
	// clinician whose slots intersect [from, to). Used for conflict checks.
	FindByClinicianInRange(ctx context.Context, tenantID, clinicianID uuid.UUID, from, to time.Time) ([]*Appointment, error)
	Save(ctx context.Context, appointment *Appointment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
