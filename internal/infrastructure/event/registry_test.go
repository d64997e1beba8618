package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xear/backend/internal/domain/shared"
)

type noopHandler struct {
	name string
}

func (h *noopHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	return nil
}

func (h *noopHandler) EventTypes() []string {
	return nil
}

func TestHandlerRegistry_RegisterAndGet(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &noopHandler{name: "reservation"}

	registry.Register(handler, "SaleQuoteFinalized")

	handlers := registry.GetHandlers("SaleQuoteFinalized")
	assert.Len(t, handlers, 1)
	assert.Empty(t, registry.GetHandlers("AppointmentScheduled"))
}

func TestHandlerRegistry_WildcardReceivesAllTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	audit := &noopHandler{name: "audit"}

	registry.Register(audit)

	assert.Len(t, registry.GetHandlers("SaleQuoteFinalized"), 1)
	assert.Len(t, registry.GetHandlers("EReceiptMatched"), 1)
}

func TestHandlerRegistry_TypedAndWildcardCombined(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := &noopHandler{name: "typed"}
	audit := &noopHandler{name: "audit"}

	registry.Register(typed, "InvoiceIssued")
	registry.Register(audit)

	handlers := registry.GetHandlers("InvoiceIssued")
	assert.Len(t, handlers, 2)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := &noopHandler{name: "typed"}
	audit := &noopHandler{name: "audit"}

	registry.Register(typed, "InvoiceIssued", "InvoicePaid")
	registry.Register(audit)
	registry.Unregister(typed)
	registry.Unregister(audit)

	assert.Empty(t, registry.GetHandlers("InvoiceIssued"))
	assert.Empty(t, registry.GetHandlers("InvoicePaid"))
	assert.Empty(t, registry.GetAllHandlers())
}

func TestHandlerRegistry_GetAllHandlersDeduplicates(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &noopHandler{name: "multi"}

	registry.Register(handler, "SaleQuoteFinalized", "SaleQuoteCancelled")

	assert.Len(t, registry.GetAllHandlers(), 1)
}
