package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the invoice lifecycle
type InvoiceStatus string

const (
	InvoiceStatusIssued    InvoiceStatus = "ISSUED"
	InvoiceStatusPartially InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusVoided    InvoiceStatus = "VOIDED"
)

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusIssued:
		return target == InvoiceStatusPartially || target == InvoiceStatusPaid || target == InvoiceStatusVoided
	case InvoiceStatusPartially:
		return target == InvoiceStatusPaid || target == InvoiceStatusVoided
	case InvoiceStatusPaid, InvoiceStatusVoided:
		return false
	}
	return false
}

// EFaturaStatus tracks submission to the GİB e-fatura system
type EFaturaStatus string

const (
	EFaturaStatusNotSent  EFaturaStatus = "NOT_SENT"
	EFaturaStatusSent     EFaturaStatus = "SENT"
	EFaturaStatusAccepted EFaturaStatus = "ACCEPTED"
	EFaturaStatusRejected EFaturaStatus = "REJECTED"
)

// InvoiceLine is an immutable snapshot of a quote item at finalization time.
// Invoices never recompute; the amounts are copied from the quote breakdown.
type InvoiceLine struct {
	Description string            `json:"description"`
	DeviceID    *uuid.UUID        `json:"device_id,omitempty"`
	Quantity    int               `json:"quantity"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	NetTotal    valueobject.Money `json:"net_total"`
}

// Invoice is the aggregate root for a patient invoice. All monetary fields
// are frozen at issue time from the originating quote.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string
	QuoteID       uuid.UUID
	PatientID     uuid.UUID
	PatientName   string
	PatientTCKN   string
	Lines         []InvoiceLine
	IssuedAt      time.Time
	DueAt         time.Time

	Subtotal       valueobject.Money
	DiscountTotal  valueobject.Money
	TaxAmount      valueobject.Money
	GrandTotal     valueobject.Money
	InsurerPayment valueobject.Money
	PatientPayment valueobject.Money
	PaidAmount     valueobject.Money

	Status     InvoiceStatus
	VoidReason string

	EFaturaStatus EFaturaStatus
	EFaturaUUID   string // GİB envelope UUID once sent
}

// InvoiceTotals carries the frozen amounts from the quote breakdown
type InvoiceTotals struct {
	Subtotal       valueobject.Money
	DiscountTotal  valueobject.Money
	TaxAmount      valueobject.Money
	GrandTotal     valueobject.Money
	InsurerPayment valueobject.Money
	PatientPayment valueobject.Money
}

// NewInvoice issues an invoice from a finalized quote snapshot
func NewInvoice(tenantID uuid.UUID, invoiceNumber string, quoteID, patientID uuid.UUID, patientName, patientTCKN string, lines []InvoiceLine, totals InvoiceTotals, issuedAt time.Time) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if quoteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_QUOTE", "Quote ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_INVOICE", "Invoice must have at least one line")
	}
	if totals.GrandTotal.IsNegative() || totals.PatientPayment.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTALS", "Invoice totals cannot be negative")
	}
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		QuoteID:             quoteID,
		PatientID:           patientID,
		PatientName:         patientName,
		PatientTCKN:         patientTCKN,
		Lines:               lines,
		IssuedAt:            issuedAt,
		DueAt:               issuedAt.AddDate(0, 1, 0),
		Subtotal:            totals.Subtotal,
		DiscountTotal:       totals.DiscountTotal,
		TaxAmount:           totals.TaxAmount,
		GrandTotal:          totals.GrandTotal,
		InsurerPayment:      totals.InsurerPayment,
		PatientPayment:      totals.PatientPayment,
		PaidAmount:          valueobject.ZeroTRY(),
		Status:              InvoiceStatusIssued,
		EFaturaStatus:       EFaturaStatusNotSent,
	}
	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))
	return inv, nil
}

// Outstanding returns what the patient still owes
func (i *Invoice) Outstanding() valueobject.Money {
	return i.PatientPayment.MustSubtract(i.PaidAmount).FloorZero()
}

// RecordPayment applies a payment against the patient share
func (i *Invoice) RecordPayment(amount valueobject.Money) error {
	if i.Status == InvoiceStatusVoided {
		return shared.NewDomainError("INVOICE_VOIDED", "Cannot pay a voided invoice")
	}
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Invoice is already settled")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	outstanding := i.Outstanding()
	if greater, _ := amount.GreaterThan(outstanding); greater {
		return shared.NewDomainError("OVERPAYMENT", fmt.Sprintf("Payment %s exceeds outstanding %s", amount.String(), outstanding.String()))
	}

	i.PaidAmount = i.PaidAmount.MustAdd(amount)
	if i.Outstanding().IsZero() {
		i.Status = InvoiceStatusPaid
		i.AddDomainEvent(NewInvoiceSettledEvent(i))
	} else {
		i.Status = InvoiceStatusPartially
	}
	i.Touch()
	return nil
}

// Void cancels the invoice. Paid invoices cannot be voided; issue a
// credit note instead.
func (i *Invoice) Void(reason string) error {
	if !i.Status.CanTransitionTo(InvoiceStatusVoided) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void invoice in %s status", i.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}
	i.Status = InvoiceStatusVoided
	i.VoidReason = reason
	i.Touch()
	return nil
}

// MarkEFaturaSent records submission to GİB
func (i *Invoice) MarkEFaturaSent(envelopeUUID string) error {
	if i.Status == InvoiceStatusVoided {
		return shared.NewDomainError("INVOICE_VOIDED", "Cannot send a voided invoice")
	}
	if i.EFaturaStatus != EFaturaStatusNotSent && i.EFaturaStatus != EFaturaStatusRejected {
		return shared.NewDomainError("ALREADY_SENT", "Invoice was already submitted")
	}
	if envelopeUUID == "" {
		return shared.NewDomainError("INVALID_ENVELOPE", "Envelope UUID is required")
	}
	i.EFaturaStatus = EFaturaStatusSent
	i.EFaturaUUID = envelopeUUID
	i.Touch()
	return nil
}

// MarkEFaturaAccepted records GİB acceptance
func (i *Invoice) MarkEFaturaAccepted() error {
	if i.EFaturaStatus != EFaturaStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Invoice was not submitted")
	}
	i.EFaturaStatus = EFaturaStatusAccepted
	i.Touch()
	return nil
}

// MarkEFaturaRejected records GİB rejection; the invoice can be resubmitted
func (i *Invoice) MarkEFaturaRejected() error {
	if i.EFaturaStatus != EFaturaStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Invoice was not submitted")
	}
	i.EFaturaStatus = EFaturaStatusRejected
	i.Touch()
	return nil
}

// IsOverdue reports whether the patient share is unpaid past the due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusVoided {
		return false
	}
	return now.After(i.DueAt) && i.Outstanding().IsPositive()
}
