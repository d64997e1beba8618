package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/xear/backend/internal/application/identity"
	"github.com/xear/backend/internal/interfaces/http/middleware"
)

// TenantHandler handles clinic management endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identityapp.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Register onboards a new clinic together with its admin account
func (h *TenantHandler) Register(c *gin.Context) {
	var req identityapp.RegisterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.tenantService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns the caller's clinic
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	resp, err := h.tenantService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetTaxInfo records the clinic's tax registration
func (h *TenantHandler) SetTaxInfo(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req identityapp.SetTaxInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.tenantService.SetTaxInfo(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetSGKFacility records the SGK contracted facility code
func (h *TenantHandler) SetSGKFacility(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req identityapp.SetSGKFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.tenantService.SetSGKFacility(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetContact updates clinic contact details
func (h *TenantHandler) SetContact(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req identityapp.SetTenantContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.tenantService.SetContact(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateSettings replaces the configurable clinic settings
func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req identityapp.UpdateTenantSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.tenantService.UpdateSettings(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
