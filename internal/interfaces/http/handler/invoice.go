package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/xear/backend/internal/application/billing"
	"github.com/xear/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler handles invoicing and payment plan endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Issue issues an invoice from a finalized quote
func (h *InvoiceHandler) Issue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.invoiceService.IssueFromQuote(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single invoice
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, invoiceID, ok := h.tenantAndInvoice(c)
	if !ok {
		return
	}

	resp, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated list of invoices
func (h *InvoiceHandler) List(c *gin.Context) {
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

	resp, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp.Invoices, resp.Total, filter.Page, filter.PageSize)
}

// ListByPatient returns a patient's invoices
func (h *InvoiceHandler) ListByPatient(c *gin.Context) {
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

	resp, err := h.invoiceService.ListByPatient(c.Request.Context(), tenantID, patientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListOverdue returns invoices past their due date with an open balance
func (h *InvoiceHandler) ListOverdue(c *gin.Context) {
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

	resp, err := h.invoiceService.ListOverdue(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RecordPayment records a patient payment against the invoice
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	tenantID, invoiceID, ok := h.tenantAndInvoice(c)
	if !ok {
		return
	}

	var req billingapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.invoiceService.RecordPayment(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Void voids an unpaid invoice
func (h *InvoiceHandler) Void(c *gin.Context) {
	tenantID, invoiceID, ok := h.tenantAndInvoice(c)
	if !ok {
		return
	}

	var req billingapp.VoidInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.invoiceService.Void(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// markEFaturaSentRequest carries the GIB envelope UUID
type markEFaturaSentRequest struct {
	EnvelopeUUID string `json:"envelope_uuid" binding:"required,uuid"`
}

// MarkEFaturaSent records that the invoice was submitted to GIB
func (h *InvoiceHandler) MarkEFaturaSent(c *gin.Context) {
	tenantID, invoiceID, ok := h.tenantAndInvoice(c)
	if !ok {
		return
	}

	var req markEFaturaSentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.invoiceService.MarkEFaturaSent(c.Request.Context(), tenantID, invoiceID, req.EnvelopeUUID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkEFaturaAccepted records GIB acceptance
func (h *InvoiceHandler) MarkEFaturaAccepted(c *gin.Context) {
	tenantID, invoiceID, ok := h.tenantAndInvoice(c)
	if !ok {
		return
	}

	resp, err := h.invoiceService.MarkEFaturaAccepted(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkEFaturaRejected records GIB rejection
func (h *InvoiceHandler) MarkEFaturaRejected(c *gin.Context) {
	tenantID, invoiceID, ok := h.tenantAndInvoice(c)
	if !ok {
		return
	}

	resp, err := h.invoiceService.MarkEFaturaRejected(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RenderPDF streams the invoice as a PDF document
func (h *InvoiceHandler) RenderPDF(c *gin.Context) {
	tenantID, invoiceID, ok := h.tenantAndInvoice(c)
	if !ok {
		return
	}

	pdf, err := h.invoiceService.RenderPDF(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice-`+invoiceID.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// CreatePaymentPlan splits the patient share into monthly installments
func (h *InvoiceHandler) CreatePaymentPlan(c *gin.Context) {
	tenantID, invoiceID, ok := h.tenantAndInvoice(c)
	if !ok {
		return
	}

	var req billingapp.CreatePaymentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.invoiceService.CreatePaymentPlan(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetPaymentPlan returns the invoice's payment plan
func (h *InvoiceHandler) GetPaymentPlan(c *gin.Context) {
	tenantID, invoiceID, ok := h.tenantAndInvoice(c)
	if !ok {
		return
	}

	resp, err := h.invoiceService.GetPaymentPlan(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// PayInstallment settles one installment of the payment plan
func (h *InvoiceHandler) PayInstallment(c *gin.Context) {
	tenantID, invoiceID, ok := h.tenantAndInvoice(c)
	if !ok {
		return
	}

	var req billingapp.PayInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.invoiceService.PayInstallment(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *InvoiceHandler) tenantAndInvoice(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, invoiceID, true
}
