package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSaleQuote = "SaleQuote"

// Event type constants
const (
	EventTypeQuoteCreated   = "SaleQuoteCreated"
	EventTypeQuoteFinalized = "SaleQuoteFinalized"
)

// QuoteCreatedEvent is raised when a new sale quote is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteID     uuid.UUID `json:"quote_id"`
	QuoteNumber string    `json:"quote_number"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name"`
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(quote *SaleQuote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeSaleQuote, quote.ID, quote.TenantID),
		QuoteID:         quote.ID,
		QuoteNumber:     quote.QuoteNumber,
		PatientID:       quote.PatientID,
		PatientName:     quote.PatientName,
	}
}

// EventType returns the event type name
func (e *QuoteCreatedEvent) EventType() string {
	return EventTypeQuoteCreated
}

// QuoteItemInfo represents line item information for events
type QuoteItemInfo struct {
	ItemID   uuid.UUID       `json:"item_id"`
	DeviceID *uuid.UUID      `json:"device_id,omitempty"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	NetTotal decimal.Decimal `json:"net_total"`
	EarSide  EarSide         `json:"ear_side,omitempty"`
}

// QuoteFinalizedEvent is raised when a quote is converted to an invoice.
// The billing context consumes it to build the invoice snapshot, and the
// inventory context reserves the quoted devices.
type QuoteFinalizedEvent struct {
	shared.BaseDomainEvent
	QuoteID        uuid.UUID       `json:"quote_id"`
	QuoteNumber    string          `json:"quote_number"`
	PatientID      uuid.UUID       `json:"patient_id"`
	Items          []QuoteItemInfo `json:"items"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	InsurerPayment decimal.Decimal `json:"insurer_payment"`
	PatientPayment decimal.Decimal `json:"patient_payment"`
}

// NewQuoteFinalizedEvent creates a new QuoteFinalizedEvent
func NewQuoteFinalizedEvent(quote *SaleQuote) *QuoteFinalizedEvent {
	items := make([]QuoteItemInfo, len(quote.Items))
	for i, item := range quote.Items {
		items[i] = QuoteItemInfo{
			ItemID:   item.ID,
			DeviceID: item.DeviceID,
			Name:     item.Name,
			Quantity: item.Quantity,
			NetTotal: item.NetTotal(),
			EarSide:  item.EarSide,
		}
	}

	return &QuoteFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteFinalized, AggregateTypeSaleQuote, quote.ID, quote.TenantID),
		QuoteID:         quote.ID,
		QuoteNumber:     quote.QuoteNumber,
		PatientID:       quote.PatientID,
		Items:           items,
		GrandTotal:      quote.GrandTotal,
		InsurerPayment:  quote.InsurerPayment,
		PatientPayment:  quote.PatientPayment,
	}
}

// EventType returns the event type name
func (e *QuoteFinalizedEvent) EventType() string {
	return EventTypeQuoteFinalized
}
