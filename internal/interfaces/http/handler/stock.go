package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/xear/backend/internal/application/inventory"
	"github.com/xear/backend/internal/interfaces/http/middleware"
)

// StockHandler handles serialized stock unit endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Receive books physical devices into stock by serial number
func (h *StockHandler) Receive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req inventoryapp.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.stockService.Receive(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single stock unit
func (h *StockHandler) GetByID(c *gin.Context) {
	tenantID, unitID, ok := h.tenantAndUnit(c)
	if !ok {
		return
	}

	resp, err := h.stockService.GetByID(c.Request.Context(), tenantID, unitID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetBySerial returns a stock unit by its serial number
func (h *StockHandler) GetBySerial(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	serial := c.Param("serial")
	if serial == "" {
		h.BadRequest(c, "Serial number is required")
		return
	}

	resp, err := h.stockService.GetBySerial(c.Request.Context(), tenantID, serial)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListByDevice returns all stock units of a device model
func (h *StockHandler) ListByDevice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid device ID format")
		return
	}

	resp, err := h.stockService.ListByDevice(c.Request.Context(), tenantID, deviceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// StockLevel reports availability for a device model
func (h *StockHandler) StockLevel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid device ID format")
		return
	}

	resp, err := h.stockService.StockLevel(c.Request.Context(), tenantID, deviceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reserve holds an available unit for a finalized quote
func (h *StockHandler) Reserve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req inventoryapp.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.stockService.Reserve(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ReleaseReservation puts a reserved unit back in stock
func (h *StockHandler) ReleaseReservation(c *gin.Context) {
	h.mutateUnit(c, h.stockService.ReleaseReservation)
}

// Deliver hands a reserved unit to a patient
func (h *StockHandler) Deliver(c *gin.Context) {
	tenantID, unitID, ok := h.tenantAndUnit(c)
	if !ok {
		return
	}

	var req inventoryapp.DeliverStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.stockService.Deliver(c.Request.Context(), tenantID, unitID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Return takes a delivered unit back, e.g. at the end of a trial
func (h *StockHandler) Return(c *gin.Context) {
	h.mutateUnit(c, h.stockService.Return)
}

// Restock makes a returned unit available again
func (h *StockHandler) Restock(c *gin.Context) {
	h.mutateUnit(c, h.stockService.Restock)
}

// SendToRepair moves a unit into service
func (h *StockHandler) SendToRepair(c *gin.Context) {
	tenantID, unitID, ok := h.tenantAndUnit(c)
	if !ok {
		return
	}

	var req inventoryapp.SendToRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.stockService.SendToRepair(c.Request.Context(), tenantID, unitID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CompleteRepair brings a repaired unit back into stock
func (h *StockHandler) CompleteRepair(c *gin.Context) {
	h.mutateUnit(c, h.stockService.CompleteRepair)
}

// Scrap writes a unit off permanently
func (h *StockHandler) Scrap(c *gin.Context) {
	h.mutateUnit(c, h.stockService.Scrap)
}

func (h *StockHandler) mutateUnit(c *gin.Context, fn func(ctx context.Context, tenantID, unitID uuid.UUID) (*inventoryapp.StockUnitResponse, error)) {
	tenantID, unitID, ok := h.tenantAndUnit(c)
	if !ok {
		return
	}

	resp, err := fn(c.Request.Context(), tenantID, unitID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *StockHandler) tenantAndUnit(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock unit ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, unitID, true
}
