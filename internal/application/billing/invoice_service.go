package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/billing"
	"github.com/xear/backend/internal/domain/patient"
	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// InvoicePrinter renders an invoice document for download
type InvoicePrinter interface {
	// RenderPDF produces the printable invoice as PDF bytes
	RenderPDF(ctx context.Context, invoice *billing.Invoice) ([]byte, error)
}

// InvoiceService handles invoicing business operations
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	planRepo       billing.PaymentPlanRepository
	quoteRepo      pricing.QuoteRepository
	patientRepo    patient.PatientRepository
	printer        InvoicePrinter
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, planRepo billing.PaymentPlanRepository, quoteRepo pricing.QuoteRepository, patientRepo patient.PatientRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		planRepo:    planRepo,
		quoteRepo:   quoteRepo,
		patientRepo: patientRepo,
	}
}

// SetPrinter wires the PDF rendering backend
func (s *InvoiceService) SetPrinter(printer InvoicePrinter) {
	s.printer = printer
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// IssueFromQuote issues an invoice from a finalized quote. The quote's
// breakdown is copied verbatim; the invoice never recomputes.
func (s *InvoiceService) IssueFromQuote(ctx context.Context, tenantID uuid.UUID, req IssueInvoiceRequest) (*InvoiceResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, req.QuoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != pricing.QuoteStatusFinalized {
		return nil, shared.NewDomainError("QUOTE_NOT_FINALIZED", "Only finalized quotes can be invoiced")
	}

	existing, err := s.invoiceRepo.FindByQuote(ctx, tenantID, req.QuoteID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_INVOICED", "This quote already has an invoice")
	}

	p, err := s.patientRepo.FindByIDForTenant(ctx, tenantID, quote.PatientID)
	if err != nil {
		return nil, err
	}

	invoiceNumber, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	lines := make([]billing.InvoiceLine, len(quote.Items))
	for i := range quote.Items {
		item := &quote.Items[i]
		lines[i] = billing.InvoiceLine{
			Description: item.Name,
			DeviceID:    item.DeviceID,
			Quantity:    item.Quantity,
			UnitPrice:   valueobject.NewMoneyTRY(item.SalePrice),
			NetTotal:    valueobject.NewMoneyTRY(item.NetTotal()),
		}
	}
	totals := billing.InvoiceTotals{
		Subtotal:       valueobject.NewMoneyTRY(quote.Subtotal),
		DiscountTotal:  valueobject.NewMoneyTRY(quote.DiscountTotal),
		TaxAmount:      valueobject.NewMoneyTRY(quote.TaxAmount),
		GrandTotal:     valueobject.NewMoneyTRY(quote.GrandTotal),
		InsurerPayment: valueobject.NewMoneyTRY(quote.InsurerPayment),
		PatientPayment: valueobject.NewMoneyTRY(quote.PatientPayment),
	}

	invoice, err := billing.NewInvoice(tenantID, invoiceNumber, quote.ID, quote.PatientID, quote.PatientName, p.TCKN, lines, totals, req.IssuedAt)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List returns invoices for a tenant with pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*InvoiceListResponse, error) {
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = ToInvoiceResponse(inv)
	}
	return &InvoiceListResponse{
		Invoices: responses,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.PageSize,
	}, nil
}

// ListByPatient returns the patient's invoices
func (s *InvoiceService) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByPatient(ctx, tenantID, patientID)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = ToInvoiceResponse(inv)
	}
	return responses, nil
}

// ListOverdue returns invoices past their due date with an open balance
func (s *InvoiceService) ListOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = ToInvoiceResponse(inv)
	}
	return responses, nil
}

// RecordPayment records a patient payment against the invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.RecordPayment(valueobject.NewMoneyTRY(req.Amount))
	})
}

// Void voids an unpaid invoice
func (s *InvoiceService) Void(ctx context.Context, tenantID, invoiceID uuid.UUID, req VoidInvoiceRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.Void(req.Reason)
	})
}

// MarkEFaturaSent records the GİB envelope UUID after submission
func (s *InvoiceService) MarkEFaturaSent(ctx context.Context, tenantID, invoiceID uuid.UUID, envelopeUUID string) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.MarkEFaturaSent(envelopeUUID)
	})
}

// MarkEFaturaAccepted records GİB acceptance
func (s *InvoiceService) MarkEFaturaAccepted(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.MarkEFaturaAccepted()
	})
}

// MarkEFaturaRejected records GİB rejection; the invoice can be resubmitted
func (s *InvoiceService) MarkEFaturaRejected(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.MarkEFaturaRejected()
	})
}

// RenderPDF produces the printable invoice document
func (s *InvoiceService) RenderPDF(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]byte, error) {
	if s.printer == nil {
		return nil, shared.NewDomainError("PRINTER_UNAVAILABLE", "Invoice printing is not configured")
	}
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.printer.RenderPDF(ctx, invoice)
}

// CreatePaymentPlan splits the invoice's patient share into monthly installments
func (s *InvoiceService) CreatePaymentPlan(ctx context.Context, tenantID, invoiceID uuid.UUID, req CreatePaymentPlanRequest) (*PaymentPlanResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == billing.InvoiceStatusVoided || invoice.Status == billing.InvoiceStatusPaid {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot plan payments for a settled or voided invoice")
	}

	existing, err := s.planRepo.FindByInvoice(ctx, tenantID, invoiceID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("PLAN_EXISTS", "This invoice already has a payment plan")
	}

	plan, err := billing.NewPaymentPlan(tenantID, invoiceID, invoice.Outstanding(), req.Installments, req.FirstDueAt)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	response := ToPaymentPlanResponse(plan)
	return &response, nil
}

// GetPaymentPlan returns the invoice's payment plan
func (s *InvoiceService) GetPaymentPlan(ctx context.Context, tenantID, invoiceID uuid.UUID) (*PaymentPlanResponse, error) {
	plan, err := s.planRepo.FindByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentPlanResponse(plan)
	return &response, nil
}

// PayInstallment settles one installment and records the amount on the invoice
func (s *InvoiceService) PayInstallment(ctx context.Context, tenantID, invoiceID uuid.UUID, req PayInstallmentRequest) (*PaymentPlanResponse, error) {
	plan, err := s.planRepo.FindByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	var amount valueobject.Money
	for _, inst := range plan.Installments {
		if inst.Sequence == req.Sequence {
			amount = inst.Amount
		}
	}
	if err := plan.PayInstallment(req.Sequence, req.PaidAt); err != nil {
		return nil, err
	}
	if err := invoice.RecordPayment(amount); err != nil {
		return nil, err
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	response := ToPaymentPlanResponse(plan)
	return &response, nil
}

func (s *InvoiceService) mutate(ctx context.Context, tenantID, invoiceID uuid.UUID, fn func(*billing.Invoice) error) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := fn(invoice); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range invoice.GetDomainEvents() {
		// event delivery is best effort; handlers are async
		_ = s.eventPublisher.Publish(ctx, event)
	}
	invoice.ClearDomainEvents()
}
