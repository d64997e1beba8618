package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// QuoteRepository defines the interface for sale quote persistence
type QuoteRepository interface {
	// FindByID finds a quote by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SaleQuote, error)

	// FindByIDForTenant finds a quote by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SaleQuote, error)

	// FindByQuoteNumber finds a quote by quote number for a tenant
	FindByQuoteNumber(ctx context.Context, tenantID uuid.UUID, quoteNumber string) (*SaleQuote, error)

	// FindAllForTenant finds all quotes for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SaleQuote, error)

	// FindByPatient finds quotes for a patient
	FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID, filter shared.Filter) ([]SaleQuote, error)

	// Save creates or updates a quote
	Save(ctx context.Context, quote *SaleQuote) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, quote *SaleQuote) error

	// DeleteForTenant deletes a quote for a tenant (soft delete)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts quotes for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateQuoteNumber generates a unique quote number for a tenant
	GenerateQuoteNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
