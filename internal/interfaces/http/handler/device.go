package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/xear/backend/internal/application/catalog"
	"github.com/xear/backend/internal/interfaces/http/middleware"
)

// DeviceHandler handles hearing device catalog endpoints
type DeviceHandler struct {
	BaseHandler
	deviceService *catalogapp.DeviceService
}

// NewDeviceHandler creates a new DeviceHandler
func NewDeviceHandler(deviceService *catalogapp.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService}
}

// Create registers a device model in the catalog
func (h *DeviceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req catalogapp.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.deviceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single catalog device
func (h *DeviceHandler) GetByID(c *gin.Context) {
	tenantID, deviceID, ok := h.tenantAndDevice(c)
	if !ok {
		return
	}

	resp, err := h.deviceService.GetByID(c.Request.Context(), tenantID, deviceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated list of catalog devices
func (h *DeviceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.deviceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp.Devices, resp.Total, filter.Page, filter.PageSize)
}

// ListSellable returns active devices available for quoting
func (h *DeviceHandler) ListSellable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.deviceService.ListSellable(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ChangeListPrice updates the catalog price
func (h *DeviceHandler) ChangeListPrice(c *gin.Context) {
	tenantID, deviceID, ok := h.tenantAndDevice(c)
	if !ok {
		return
	}

	var req catalogapp.ChangeListPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.deviceService.ChangeListPrice(c.Request.Context(), tenantID, deviceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateSpecs updates technical attributes of a device
func (h *DeviceHandler) UpdateSpecs(c *gin.Context) {
	tenantID, deviceID, ok := h.tenantAndDevice(c)
	if !ok {
		return
	}

	var req catalogapp.UpdateSpecsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.deviceService.UpdateSpecs(c.Request.Context(), tenantID, deviceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Discontinue retires a device model from the catalog
func (h *DeviceHandler) Discontinue(c *gin.Context) {
	tenantID, deviceID, ok := h.tenantAndDevice(c)
	if !ok {
		return
	}

	resp, err := h.deviceService.Discontinue(c.Request.Context(), tenantID, deviceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *DeviceHandler) tenantAndDevice(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid device ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, deviceID, true
}
