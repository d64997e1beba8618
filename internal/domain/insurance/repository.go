package insurance

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// EReceiptRepository is the persistence interface for e-receipts
type EReceiptRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*EReceipt, error)
	FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*EReceipt, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*EReceipt, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status EReceiptStatus, filter shared.Filter) ([]*EReceipt, error)
	FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*EReceipt, error)
	Save(ctx context.Context, receipt *EReceipt) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// SchemeRepository stores tenant-specific coverage scheme overrides
type SchemeRepository interface {
	FindByID(ctx context.Context, tenantID uuid.UUID, schemeID string) (*Scheme, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]*Scheme, error)
	Save(ctx context.Context, tenantID uuid.UUID, scheme *Scheme) error
	Delete(ctx context.Context, tenantID uuid.UUID, schemeID string) error
}
