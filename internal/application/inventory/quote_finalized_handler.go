package inventory

import (
	"context"
	"fmt"

	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// QuoteFinalizedHandler reserves stock for the devices on a finalized quote.
// One unit is reserved per quantity of every device-backed line item.
type QuoteFinalizedHandler struct {
	logger       *zap.Logger
	stockService *StockService
}

// NewQuoteFinalizedHandler creates a new handler for quote finalized events
func NewQuoteFinalizedHandler(logger *zap.Logger, stockService *StockService) *QuoteFinalizedHandler {
	return &QuoteFinalizedHandler{
		logger:       logger,
		stockService: stockService,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *QuoteFinalizedHandler) EventTypes() []string {
	return []string{pricing.EventTypeQuoteFinalized}
}

// Handle processes a QuoteFinalizedEvent
func (h *QuoteFinalizedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	finalized, ok := event.(*pricing.QuoteFinalizedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", pricing.EventTypeQuoteFinalized),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			pricing.EventTypeQuoteFinalized, event.EventType())
	}

	tenantID := event.TenantID()
	for _, item := range finalized.Items {
		if item.DeviceID == nil {
			// service lines (ear molds, batteries sold loose) carry no serial
			continue
		}
		for i := 0; i < item.Quantity; i++ {
			unit, err := h.stockService.Reserve(ctx, tenantID, ReserveStockRequest{
				DeviceID: *item.DeviceID,
				QuoteID:  finalized.QuoteID,
			})
			if err != nil {
				h.logger.Warn("could not reserve stock for finalized quote",
					zap.String("tenant_id", tenantID.String()),
					zap.String("quote_number", finalized.QuoteNumber),
					zap.String("device_id", item.DeviceID.String()),
					zap.Error(err),
				)
				return err
			}
			h.logger.Info("stock reserved for quote",
				zap.String("tenant_id", tenantID.String()),
				zap.String("quote_number", finalized.QuoteNumber),
				zap.String("serial_number", unit.SerialNumber),
			)
		}
	}
	return nil
}
