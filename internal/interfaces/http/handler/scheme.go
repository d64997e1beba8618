package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	insuranceapp "github.com/xear/backend/internal/application/insurance"
	"github.com/xear/backend/internal/domain/insurance"
	"github.com/xear/backend/internal/interfaces/http/middleware"
)

// SchemeHandler handles insurance coverage scheme HTTP requests
type SchemeHandler struct {
	BaseHandler
	schemeService *insuranceapp.SchemeService
}

// NewSchemeHandler creates a new scheme handler
func NewSchemeHandler(schemeService *insuranceapp.SchemeService) *SchemeHandler {
	return &SchemeHandler{schemeService: schemeService}
}

// List returns all coverage schemes for the tenant
func (h *SchemeHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	resp, err := h.schemeService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a single coverage scheme
func (h *SchemeHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	scheme, err := h.schemeService.GetScheme(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, scheme)
}

type coverageBandRequest struct {
	MinAge       int             `json:"min_age" binding:"min=0"`
	MaxAge       int             `json:"max_age" binding:"min=0"`
	Contribution decimal.Decimal `json:"contribution" binding:"required"`
}

type saveSchemeRequest struct {
	ID              string                `json:"id" binding:"required,min=1,max=50"`
	Name            string                `json:"name" binding:"required,min=1,max=100"`
	Bands           []coverageBandRequest `json:"bands" binding:"required,min=1,dive"`
	CoveragePercent decimal.Decimal       `json:"coverage_percent" binding:"required"`
	BilateralDouble bool                  `json:"bilateral_double"`
}

// Save creates or replaces a coverage scheme
func (h *SchemeHandler) Save(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req saveSchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	scheme := &insurance.Scheme{
		ID:              req.ID,
		Name:            req.Name,
		CoveragePercent: req.CoveragePercent,
		BilateralDouble: req.BilateralDouble,
	}
	for _, band := range req.Bands {
		scheme.Bands = append(scheme.Bands, insurance.CoverageBand{
			MinAge:       band.MinAge,
			MaxAge:       band.MaxAge,
			Contribution: band.Contribution,
		})
	}

	if err := h.schemeService.Save(c.Request.Context(), tenantID, scheme); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, scheme)
}

// Delete removes a coverage scheme
func (h *SchemeHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	if err := h.schemeService.Delete(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
