package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/xear/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	base := shared.NewBaseDomainEvent(eventType, "SaleQuote", uuid.New(), uuid.New())
	return &base
}

func TestInMemoryEventBus_PublishDispatchesToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"SaleQuoteFinalized"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("SaleQuoteFinalized"))

	assert.NoError(t, err)
	assert.Len(t, handler.received, 1)
	assert.Equal(t, "SaleQuoteFinalized", handler.received[0].EventType())
}

func TestInMemoryEventBus_PublishSkipsUnrelatedTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"SaleQuoteFinalized"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("AppointmentScheduled"))

	assert.NoError(t, err)
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"SaleQuoteFinalized"}, err: errors.New("reserve failed")}
	healthy := &recordingHandler{types: []string{"SaleQuoteFinalized"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("SaleQuoteFinalized"))

	assert.NoError(t, err)
	assert.Len(t, failing.received, 1)
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_HandlerPanicIsRecovered(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"SaleQuoteFinalized"}, panics: true}
	healthy := &recordingHandler{types: []string{"SaleQuoteFinalized"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("SaleQuoteFinalized"))
	})
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"SaleQuoteFinalized"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("SaleQuoteFinalized"))

	assert.NoError(t, err)
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBus_PublishMultipleEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler, "SaleQuoteFinalized", "InvoiceIssued")

	err := bus.Publish(context.Background(),
		newTestEvent("SaleQuoteFinalized"),
		newTestEvent("InvoiceIssued"),
		newTestEvent("PatientRegistered"),
	)

	assert.NoError(t, err)
	assert.Len(t, handler.received, 2)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, bus.Start(ctx))
	assert.NoError(t, bus.Stop(ctx))
}
