package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/pricing"
)

// ==================== Quote DTOs ====================

// CreateQuoteRequest represents a request to create a sale quote
type CreateQuoteRequest struct {
	PatientID   uuid.UUID              `json:"patient_id" binding:"required"`
	PatientName string                 `json:"patient_name" binding:"required,min=1,max=200"`
	Items       []CreateQuoteItemInput `json:"items"`
	Notes       string                 `json:"notes"`
}

// CreateQuoteItemInput represents an item in the create quote request
type CreateQuoteItemInput struct {
	DeviceID     *uuid.UUID           `json:"device_id"`
	Name         string               `json:"name" binding:"required,min=1,max=200"`
	ListPrice    decimal.Decimal      `json:"list_price" binding:"required"`
	SalePrice    *decimal.Decimal     `json:"sale_price"`
	Quantity     int                  `json:"quantity" binding:"required,min=1"`
	Discount     *decimal.Decimal     `json:"discount"`
	DiscountType pricing.DiscountType `json:"discount_type"`
	EarSide      pricing.EarSide      `json:"ear_side"`
}

// AddQuoteItemRequest represents a request to add an item to a quote
type AddQuoteItemRequest struct {
	DeviceID     *uuid.UUID           `json:"device_id"`
	Name         string               `json:"name" binding:"required,min=1,max=200"`
	ListPrice    decimal.Decimal      `json:"list_price" binding:"required"`
	SalePrice    *decimal.Decimal     `json:"sale_price"`
	Quantity     int                  `json:"quantity" binding:"required,min=1"`
	Discount     *decimal.Decimal     `json:"discount"`
	DiscountType pricing.DiscountType `json:"discount_type"`
	EarSide      pricing.EarSide      `json:"ear_side"`
}

// UpdateQuoteItemRequest carries partial item changes; nil fields are untouched
type UpdateQuoteItemRequest struct {
	SalePrice    *decimal.Decimal      `json:"sale_price"`
	Quantity     *int                  `json:"quantity"`
	Discount     *decimal.Decimal      `json:"discount"`
	DiscountType *pricing.DiscountType `json:"discount_type"`
	EarSide      *pricing.EarSide      `json:"ear_side"`
}

// UpdateQuoteOptionsRequest carries partial option changes; nil fields are untouched
type UpdateQuoteOptionsRequest struct {
	VATRate            *decimal.Decimal      `json:"vat_rate"`
	SchemeID           *string               `json:"scheme_id"`
	PatientAge         *int                  `json:"patient_age"`
	Bilateral          *bool                 `json:"bilateral"`
	GlobalDiscount     *decimal.Decimal      `json:"global_discount"`
	GlobalDiscountType *pricing.DiscountType `json:"global_discount_type"`
}

// PreviewRequest asks for a stateless single-item price preview
type PreviewRequest struct {
	ListPrice    decimal.Decimal      `json:"list_price" binding:"required"`
	SalePrice    *decimal.Decimal     `json:"sale_price"`
	Quantity     int                  `json:"quantity"`
	Discount     *decimal.Decimal     `json:"discount"`
	DiscountType pricing.DiscountType `json:"discount_type"`
	VATRate      decimal.Decimal      `json:"vat_rate"`
}

// PreviewResponse is the stateless preview result
type PreviewResponse struct {
	GrossTotal     decimal.Decimal `json:"gross_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	NetTotal       decimal.Decimal `json:"net_total"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

// QuoteItemResponse represents a quote line in responses
type QuoteItemResponse struct {
	ID           uuid.UUID            `json:"id"`
	DeviceID     *uuid.UUID           `json:"device_id,omitempty"`
	Name         string               `json:"name"`
	ListPrice    decimal.Decimal      `json:"list_price"`
	SalePrice    decimal.Decimal      `json:"sale_price"`
	Quantity     int                  `json:"quantity"`
	Discount     decimal.Decimal      `json:"discount"`
	DiscountType pricing.DiscountType `json:"discount_type"`
	EarSide      pricing.EarSide      `json:"ear_side,omitempty"`
	GrossTotal   decimal.Decimal      `json:"gross_total"`
	NetTotal     decimal.Decimal      `json:"net_total"`
}

// QuoteResponse represents a full quote with its computed breakdown
type QuoteResponse struct {
	ID          uuid.UUID           `json:"id"`
	QuoteNumber string              `json:"quote_number"`
	PatientID   uuid.UUID           `json:"patient_id"`
	PatientName string              `json:"patient_name"`
	Status      pricing.QuoteStatus `json:"status"`
	Items       []QuoteItemResponse `json:"items"`
	Notes       string              `json:"notes,omitempty"`

	VATRate            decimal.Decimal      `json:"vat_rate"`
	SchemeID           string               `json:"scheme_id,omitempty"`
	PatientAge         *int                 `json:"patient_age,omitempty"`
	Bilateral          bool                 `json:"bilateral"`
	GlobalDiscount     decimal.Decimal      `json:"global_discount"`
	GlobalDiscountType pricing.DiscountType `json:"global_discount_type"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountTotal  decimal.Decimal `json:"discount_total"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	SGKEligible    bool            `json:"sgk_eligible"`
	SGKDeduction   decimal.Decimal `json:"sgk_deduction"`
	InsurerPayment decimal.Decimal `json:"insurer_payment"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	PatientPayment decimal.Decimal `json:"patient_payment"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuoteListResponse is a paginated quote listing
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// ToQuoteItemResponse converts a domain quote item to a response DTO
func ToQuoteItemResponse(item pricing.QuoteItem) QuoteItemResponse {
	return QuoteItemResponse{
		ID:           item.ID,
		DeviceID:     item.DeviceID,
		Name:         item.Name,
		ListPrice:    item.ListPrice,
		SalePrice:    item.SalePrice,
		Quantity:     item.Quantity,
		Discount:     item.Discount,
		DiscountType: item.DiscountType,
		EarSide:      item.EarSide,
		GrossTotal:   item.GrossTotal(),
		NetTotal:     item.NetTotal(),
	}
}

// ToQuoteResponse converts a domain quote to a response DTO
func ToQuoteResponse(q *pricing.SaleQuote) QuoteResponse {
	items := make([]QuoteItemResponse, len(q.Items))
	for i, item := range q.Items {
		items[i] = ToQuoteItemResponse(item)
	}
	return QuoteResponse{
		ID:                 q.ID,
		QuoteNumber:        q.QuoteNumber,
		PatientID:          q.PatientID,
		PatientName:        q.PatientName,
		Status:             q.Status,
		Items:              items,
		Notes:              q.Notes,
		VATRate:            q.Opts.VATRate,
		SchemeID:           q.Opts.SchemeID,
		PatientAge:         q.Opts.PatientAge,
		Bilateral:          q.Opts.Bilateral,
		GlobalDiscount:     q.Opts.GlobalDiscount,
		GlobalDiscountType: q.Opts.GlobalDiscountType,
		Subtotal:           q.Subtotal,
		DiscountTotal:      q.DiscountTotal,
		TaxableAmount:      q.TaxableAmount,
		TaxAmount:          q.TaxAmount,
		SGKEligible:        q.SGKEligible,
		SGKDeduction:       q.SGKDeduction,
		InsurerPayment:     q.InsurerPayment,
		GrandTotal:         q.GrandTotal,
		PatientPayment:     q.PatientPayment,
		Version:            q.GetVersion(),
		CreatedAt:          q.GetCreatedAt(),
		UpdatedAt:          q.GetUpdatedAt(),
	}
}
