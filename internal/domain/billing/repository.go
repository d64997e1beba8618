package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// InvoiceRepository is the persistence interface for invoices
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*Invoice, error)
	FindByQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Invoice, error)
	FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*Invoice, error)
	FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// GenerateInvoiceNumber issues the next sequential number in the
	// XE-YYYY-NNNNN format, per tenant and year
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PaymentPlanRepository is the persistence interface for payment plans
type PaymentPlanRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentPlan, error)
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*PaymentPlan, error)
	Save(ctx context.Context, plan *PaymentPlan) error
}
