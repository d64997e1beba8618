package billing

import (
	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceIssued  = "InvoiceIssued"
	EventTypeInvoiceSettled = "InvoiceSettled"
)

// InvoiceIssuedEvent is raised when an invoice is created from a quote
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID         `json:"invoice_id"`
	InvoiceNumber  string            `json:"invoice_number"`
	QuoteID        uuid.UUID         `json:"quote_id"`
	PatientID      uuid.UUID         `json:"patient_id"`
	GrandTotal     valueobject.Money `json:"grand_total"`
	PatientPayment valueobject.Money `json:"patient_payment"`
}

// NewInvoiceIssuedEvent creates a new InvoiceIssuedEvent
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceIssued, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		QuoteID:         inv.QuoteID,
		PatientID:       inv.PatientID,
		GrandTotal:      inv.GrandTotal,
		PatientPayment:  inv.PatientPayment,
	}
}

// EventType returns the event type name
func (e *InvoiceIssuedEvent) EventType() string {
	return EventTypeInvoiceIssued
}

// InvoiceSettledEvent is raised when the patient share is fully paid
type InvoiceSettledEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID         `json:"invoice_id"`
	InvoiceNumber string            `json:"invoice_number"`
	PaidAmount    valueobject.Money `json:"paid_amount"`
}

// NewInvoiceSettledEvent creates a new InvoiceSettledEvent
func NewInvoiceSettledEvent(inv *Invoice) *InvoiceSettledEvent {
	return &InvoiceSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSettled, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		PaidAmount:      inv.PaidAmount,
	}
}

// EventType returns the event type name
func (e *InvoiceSettledEvent) EventType() string {
	return EventTypeInvoiceSettled
}
