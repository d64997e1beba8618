package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/billing"
)

// IssueInvoiceRequest issues an invoice from a finalized quote
type IssueInvoiceRequest struct {
	QuoteID  uuid.UUID `json:"quote_id" binding:"required"`
	IssuedAt time.Time `json:"issued_at"`
}

// RecordPaymentRequest records a patient payment against the invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// VoidInvoiceRequest voids an unpaid invoice
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CreatePaymentPlanRequest splits the patient share into monthly installments
type CreatePaymentPlanRequest struct {
	Installments int       `json:"installments" binding:"required,min=2,max=36"`
	FirstDueAt   time.Time `json:"first_due_at" binding:"required"`
}

// PayInstallmentRequest settles one installment of a plan
type PayInstallmentRequest struct {
	Sequence int       `json:"sequence" binding:"required,min=1"`
	PaidAt   time.Time `json:"paid_at"`
}

// InvoiceLineResponse is one frozen line on the invoice
type InvoiceLineResponse struct {
	Description string          `json:"description"`
	DeviceID    *uuid.UUID      `json:"device_id,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	NetTotal    decimal.Decimal `json:"net_total"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	QuoteID        uuid.UUID             `json:"quote_id"`
	PatientID      uuid.UUID             `json:"patient_id"`
	PatientName    string                `json:"patient_name"`
	PatientTCKN    string                `json:"patient_tckn"`
	Lines          []InvoiceLineResponse `json:"lines"`
	IssuedAt       time.Time             `json:"issued_at"`
	DueAt          time.Time             `json:"due_at"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountTotal  decimal.Decimal       `json:"discount_total"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	GrandTotal     decimal.Decimal       `json:"grand_total"`
	InsurerPayment decimal.Decimal       `json:"insurer_payment"`
	PatientPayment decimal.Decimal       `json:"patient_payment"`
	PaidAmount     decimal.Decimal       `json:"paid_amount"`
	Outstanding    decimal.Decimal       `json:"outstanding"`
	Status         billing.InvoiceStatus `json:"status"`
	VoidReason     string                `json:"void_reason,omitempty"`
	EFaturaStatus  billing.EFaturaStatus `json:"efatura_status"`
	EFaturaUUID    string                `json:"efatura_uuid,omitempty"`
	Version        int                   `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// InvoiceListResponse represents a paginated list of invoices
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// InstallmentResponse is one installment of a payment plan
type InstallmentResponse struct {
	Sequence int                       `json:"sequence"`
	Amount   decimal.Decimal           `json:"amount"`
	DueAt    time.Time                 `json:"due_at"`
	Status   billing.InstallmentStatus `json:"status"`
	PaidAt   *time.Time                `json:"paid_at,omitempty"`
}

// PaymentPlanResponse represents a payment plan in API responses
type PaymentPlanResponse struct {
	ID           uuid.UUID             `json:"id"`
	InvoiceID    uuid.UUID             `json:"invoice_id"`
	Installments []InstallmentResponse `json:"installments"`
	PaidAmount   decimal.Decimal       `json:"paid_amount"`
	Outstanding  decimal.Decimal       `json:"outstanding"`
	Settled      bool                  `json:"settled"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts an invoice aggregate to a response DTO
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, line := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			Description: line.Description,
			DeviceID:    line.DeviceID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.Amount(),
			NetTotal:    line.NetTotal.Amount(),
		}
	}
	return InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		QuoteID:        inv.QuoteID,
		PatientID:      inv.PatientID,
		PatientName:    inv.PatientName,
		PatientTCKN:    inv.PatientTCKN,
		Lines:          lines,
		IssuedAt:       inv.IssuedAt,
		DueAt:          inv.DueAt,
		Subtotal:       inv.Subtotal.Amount(),
		DiscountTotal:  inv.DiscountTotal.Amount(),
		TaxAmount:      inv.TaxAmount.Amount(),
		GrandTotal:     inv.GrandTotal.Amount(),
		InsurerPayment: inv.InsurerPayment.Amount(),
		PatientPayment: inv.PatientPayment.Amount(),
		PaidAmount:     inv.PaidAmount.Amount(),
		Outstanding:    inv.Outstanding().Amount(),
		Status:         inv.Status,
		VoidReason:     inv.VoidReason,
		EFaturaStatus:  inv.EFaturaStatus,
		EFaturaUUID:    inv.EFaturaUUID,
		Version:        inv.Version,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// ToPaymentPlanResponse converts a payment plan aggregate to a response DTO
func ToPaymentPlanResponse(plan *billing.PaymentPlan) PaymentPlanResponse {
	installments := make([]InstallmentResponse, len(plan.Installments))
	for i, inst := range plan.Installments {
		installments[i] = InstallmentResponse{
			Sequence: inst.Sequence,
			Amount:   inst.Amount.Amount(),
			DueAt:    inst.DueAt,
			Status:   inst.Status,
			PaidAt:   inst.PaidAt,
		}
	}
	return PaymentPlanResponse{
		ID:           plan.ID,
		InvoiceID:    plan.InvoiceID,
		Installments: installments,
		PaidAmount:   plan.PaidAmount().Amount(),
		Outstanding:  plan.Outstanding().Amount(),
		Settled:      plan.IsSettled(),
		CreatedAt:    plan.CreatedAt,
		UpdatedAt:    plan.UpdatedAt,
	}
}
