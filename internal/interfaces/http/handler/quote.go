package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pricingapp "github.com/xear/backend/internal/application/pricing"
	"github.com/xear/backend/internal/interfaces/http/middleware"
)

// QuoteHandler handles sale quote endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *pricingapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *pricingapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Create opens a draft quote for a patient
func (h *QuoteHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req pricingapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.quoteService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single quote
func (h *QuoteHandler) GetByID(c *gin.Context) {
	tenantID, quoteID, ok := h.tenantAndQuote(c)
	if !ok {
		return
	}

	resp, err := h.quoteService.GetByID(c.Request.Context(), tenantID, quoteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated list of quotes
func (h *QuoteHandler) List(c *gin.Context) {
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

	resp, err := h.quoteService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp.Quotes, resp.Total, filter.Page, filter.PageSize)
}

// ListByPatient returns a patient's quotes
func (h *QuoteHandler) ListByPatient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.quoteService.ListByPatient(c.Request.Context(), tenantID, patientID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddItem adds a line to a draft quote
func (h *QuoteHandler) AddItem(c *gin.Context) {
	tenantID, quoteID, ok := h.tenantAndQuote(c)
	if !ok {
		return
	}

	var req pricingapp.AddQuoteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.quoteService.AddItem(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateItem changes quantity, price or discount of a quote line
func (h *QuoteHandler) UpdateItem(c *gin.Context) {
	tenantID, quoteID, ok := h.tenantAndQuote(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req pricingapp.UpdateQuoteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.quoteService.UpdateItem(c.Request.Context(), tenantID, quoteID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem deletes a line from a draft quote
func (h *QuoteHandler) RemoveItem(c *gin.Context) {
	tenantID, quoteID, ok := h.tenantAndQuote(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	resp, err := h.quoteService.RemoveItem(c.Request.Context(), tenantID, quoteID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateOptions sets the insurance scheme, patient age and bilateral flag
func (h *QuoteHandler) UpdateOptions(c *gin.Context) {
	tenantID, quoteID, ok := h.tenantAndQuote(c)
	if !ok {
		return
	}

	var req pricingapp.UpdateQuoteOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.quoteService.UpdateOptions(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Compute recalculates totals including the SGK deduction
func (h *QuoteHandler) Compute(c *gin.Context) {
	h.mutateQuote(c, h.quoteService.Compute)
}

// Preview computes totals for an ad-hoc basket without persisting anything
func (h *QuoteHandler) Preview(c *gin.Context) {
	var req pricingapp.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	h.Success(c, h.quoteService.Preview(req))
}

// Finalize locks the quote for invoicing
func (h *QuoteHandler) Finalize(c *gin.Context) {
	h.mutateQuote(c, h.quoteService.Finalize)
}

// Cancel withdraws a quote
func (h *QuoteHandler) Cancel(c *gin.Context) {
	h.mutateQuote(c, h.quoteService.Cancel)
}

func (h *QuoteHandler) mutateQuote(c *gin.Context, fn func(ctx context.Context, tenantID, quoteID uuid.UUID) (*pricingapp.QuoteResponse, error)) {
	tenantID, quoteID, ok := h.tenantAndQuote(c)
	if !ok {
		return
	}

	resp, err := fn(c.Request.Context(), tenantID, quoteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *QuoteHandler) tenantAndQuote(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}

	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, quoteID, true
}
