package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	insuranceapp "github.com/xear/backend/internal/application/insurance"
	"github.com/xear/backend/internal/domain/insurance"
	"github.com/xear/backend/internal/interfaces/http/middleware"
)

// EReceiptHandler handles SGK e-receipt HTTP requests
type EReceiptHandler struct {
	BaseHandler
	ereceiptService *insuranceapp.EReceiptService
}

// NewEReceiptHandler creates a new e-receipt handler
func NewEReceiptHandler(ereceiptService *insuranceapp.EReceiptService) *EReceiptHandler {
	return &EReceiptHandler{ereceiptService: ereceiptService}
}

// Upload registers an uploaded SGK e-receipt and attempts auto-matching
func (h *EReceiptHandler) Upload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req insuranceapp.UploadEReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.ereceiptService.Upload(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single e-receipt
func (h *EReceiptHandler) GetByID(c *gin.Context) {
	tenantID, receiptID, ok := h.tenantAndReceipt(c)
	if !ok {
		return
	}

	resp, err := h.ereceiptService.GetByID(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns e-receipts, optionally filtered by status
func (h *EReceiptHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	status := insurance.EReceiptStatus(c.Query("status"))

	resp, err := h.ereceiptService.List(c.Request.Context(), tenantID, status, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp.Receipts, resp.Total, resp.Page, resp.Limit)
}

// Suggestions returns scored patient candidates for a pending receipt
func (h *EReceiptHandler) Suggestions(c *gin.Context) {
	tenantID, receiptID, ok := h.tenantAndReceipt(c)
	if !ok {
		return
	}

	resp, err := h.ereceiptService.Suggestions(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Match manually links a receipt to a patient
func (h *EReceiptHandler) Match(c *gin.Context) {
	tenantID, receiptID, ok := h.tenantAndReceipt(c)
	if !ok {
		return
	}

	var req insuranceapp.MatchEReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.ereceiptService.Match(c.Request.Context(), tenantID, receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Claim submits a matched receipt to SGK for reimbursement
func (h *EReceiptHandler) Claim(c *gin.Context) {
	tenantID, receiptID, ok := h.tenantAndReceipt(c)
	if !ok {
		return
	}

	resp, err := h.ereceiptService.Claim(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkPaid records SGK reimbursement for a claimed receipt
func (h *EReceiptHandler) MarkPaid(c *gin.Context) {
	tenantID, receiptID, ok := h.tenantAndReceipt(c)
	if !ok {
		return
	}

	resp, err := h.ereceiptService.MarkPaid(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reject rejects a receipt with a reason
func (h *EReceiptHandler) Reject(c *gin.Context) {
	tenantID, receiptID, ok := h.tenantAndReceipt(c)
	if !ok {
		return
	}

	var req insuranceapp.RejectEReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.ereceiptService.Reject(c.Request.Context(), tenantID, receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

type uploadURLRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// GenerateUploadURL issues a presigned URL for uploading the receipt document
func (h *EReceiptHandler) GenerateUploadURL(c *gin.Context) {
	tenantID, receiptID, ok := h.tenantAndReceipt(c)
	if !ok {
		return
	}

	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	url, expiresAt, err := h.ereceiptService.GenerateUploadURL(c.Request.Context(), tenantID, receiptID, req.ContentType)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"url": url, "expires_at": expiresAt})
}

// GenerateDownloadURL issues a presigned URL for downloading the receipt document
func (h *EReceiptHandler) GenerateDownloadURL(c *gin.Context) {
	tenantID, receiptID, ok := h.tenantAndReceipt(c)
	if !ok {
		return
	}

	url, expiresAt, err := h.ereceiptService.GenerateDownloadURL(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"url": url, "expires_at": expiresAt})
}

func (h *EReceiptHandler) tenantAndReceipt(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return uuid.Nil, uuid.Nil, false
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid e-receipt ID")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, receiptID, true
}
