package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	appbilling "github.com/xear/backend/internal/application/billing"
	"github.com/xear/backend/internal/domain/billing"
	"github.com/xear/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// Ensure InvoicePDFPrinter satisfies the billing printer contract
var _ appbilling.InvoicePrinter = (*InvoicePDFPrinter)(nil)

// HTMLRenderer turns an HTML document into PDF bytes
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// InvoicePDFPrinter renders issued invoices into printable A4 PDFs. The
// clinic letterhead comes from the owning tenant record.
type InvoicePDFPrinter struct {
	renderer   HTMLRenderer
	tenantRepo identity.TenantRepository
	template   *template.Template
	logger     *zap.Logger
}

// NewInvoicePDFPrinter creates a new invoice PDF printer
func NewInvoicePDFPrinter(renderer HTMLRenderer, tenantRepo identity.TenantRepository, logger *zap.Logger) *InvoicePDFPrinter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoicePDFPrinter{
		renderer:   renderer,
		tenantRepo: tenantRepo,
		template:   template.Must(template.New("invoice").Parse(invoiceTemplateHTML)),
		logger:     logger,
	}
}

// RenderPDF produces the printable invoice as PDF bytes
func (p *InvoicePDFPrinter) RenderPDF(ctx context.Context, invoice *billing.Invoice) ([]byte, error) {
	if invoice == nil {
		return nil, fmt.Errorf("invoice is required")
	}

	html, err := p.renderHTML(ctx, invoice)
	if err != nil {
		return nil, err
	}

	pdf, err := p.renderer.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", invoice.InvoiceNumber, err)
	}

	p.logger.Debug("invoice rendered",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int("bytes", len(pdf)),
	)

	return pdf, nil
}

func (p *InvoicePDFPrinter) renderHTML(ctx context.Context, invoice *billing.Invoice) (string, error) {
	view := newInvoiceView(invoice)

	// Letterhead is best effort; a missing tenant record should not block
	// the download
	if p.tenantRepo != nil {
		if tenant, err := p.tenantRepo.FindByID(ctx, invoice.TenantID); err == nil {
			view.ClinicName = tenant.Name
			view.ClinicAddress = tenant.Address
			view.ClinicPhone = tenant.ContactPhone
			view.TaxNumber = tenant.TaxNumber
			view.TaxOffice = tenant.TaxOffice
		} else {
			p.logger.Warn("letterhead lookup failed",
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.Error(err),
			)
		}
	}

	var buf bytes.Buffer
	if err := p.template.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute invoice template: %w", err)
	}
	return buf.String(), nil
}

// invoiceView is the template model for a printable invoice
type invoiceView struct {
	ClinicName    string
	ClinicAddress string
	ClinicPhone   string
	TaxNumber     string
	TaxOffice     string

	InvoiceNumber string
	IssuedAt      string
	DueAt         string
	PatientName   string
	PatientTCKN   string
	Status        string
	EFaturaUUID   string

	Lines []invoiceLineView

	Subtotal       string
	DiscountTotal  string
	TaxAmount      string
	GrandTotal     string
	InsurerPayment string
	PatientPayment string
	PaidAmount     string
	HasSGKPayment  bool
}

type invoiceLineView struct {
	Description string
	Quantity    int
	UnitPrice   string
	NetTotal    string
}

func newInvoiceView(invoice *billing.Invoice) *invoiceView {
	view := &invoiceView{
		InvoiceNumber:  invoice.InvoiceNumber,
		IssuedAt:       invoice.IssuedAt.Format("02.01.2006"),
		DueAt:          invoice.DueAt.Format("02.01.2006"),
		PatientName:    invoice.PatientName,
		PatientTCKN:    maskTCKN(invoice.PatientTCKN),
		Status:         string(invoice.Status),
		EFaturaUUID:    invoice.EFaturaUUID,
		Subtotal:       formatTRY(invoice.Subtotal.StringFixed(2)),
		DiscountTotal:  formatTRY(invoice.DiscountTotal.StringFixed(2)),
		TaxAmount:      formatTRY(invoice.TaxAmount.StringFixed(2)),
		GrandTotal:     formatTRY(invoice.GrandTotal.StringFixed(2)),
		InsurerPayment: formatTRY(invoice.InsurerPayment.StringFixed(2)),
		PatientPayment: formatTRY(invoice.PatientPayment.StringFixed(2)),
		PaidAmount:     formatTRY(invoice.PaidAmount.StringFixed(2)),
		HasSGKPayment:  invoice.InsurerPayment.IsPositive(),
	}

	for _, line := range invoice.Lines {
		view.Lines = append(view.Lines, invoiceLineView{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   formatTRY(line.UnitPrice.StringFixed(2)),
			NetTotal:    formatTRY(line.NetTotal.StringFixed(2)),
		})
	}

	return view
}

// maskTCKN keeps the first three and last two digits visible on the
// printed document
func maskTCKN(tckn string) string {
	if len(tckn) != 11 {
		return tckn
	}
	return tckn[:3] + "******" + tckn[9:]
}

func formatTRY(amount string) string {
	return amount + " ₺"
}
