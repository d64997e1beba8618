package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// PatientRepository is the persistence interface for patient records
type PatientRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Patient, error)
	FindByTCKN(ctx context.Context, tenantID uuid.UUID, tckn string) (*Patient, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Patient, error)
	Search(ctx context.Context, tenantID uuid.UUID, query string, filter shared.Filter) ([]*Patient, error)
	Save(ctx context.Context, patient *Patient) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
