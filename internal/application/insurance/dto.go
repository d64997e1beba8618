package insurance

import (
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/insurance"
)

// ==================== EReceipt DTOs ====================

// UploadEReceiptRequest registers an uploaded SGK e-receipt
type UploadEReceiptRequest struct {
	ReceiptNumber string              `json:"receipt_number" binding:"required,min=1,max=50"`
	PatientText   string              `json:"patient_text" binding:"required,min=1,max=200"`
	TCKNText      string              `json:"tckn_text" binding:"max=11"`
	IssuedAt      time.Time           `json:"issued_at" binding:"required"`
	ValidUntil    time.Time           `json:"valid_until"`
	Lines         []EReceiptLineInput `json:"lines"`
}

// EReceiptLineInput is one prescribed line on the uploaded receipt
type EReceiptLineInput struct {
	Description string `json:"description" binding:"required,min=1,max=200"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Barcode     string `json:"barcode" binding:"max=50"`
}

// MatchEReceiptRequest manually links a receipt to a patient
type MatchEReceiptRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
}

// RejectEReceiptRequest rejects a receipt with a reason
type RejectEReceiptRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// MatchSuggestionResponse is one scored patient candidate
type MatchSuggestionResponse struct {
	PatientID string  `json:"patient_id"`
	Score     float64 `json:"score"`
}

// EReceiptResponse represents an e-receipt in API responses
type EReceiptResponse struct {
	ID               uuid.UUID                `json:"id"`
	ReceiptNumber    string                   `json:"receipt_number"`
	PatientText      string                   `json:"patient_text"`
	TCKNText         string                   `json:"tckn_text,omitempty"`
	Lines            []insurance.EReceiptLine `json:"lines"`
	IssuedAt         time.Time                `json:"issued_at"`
	ValidUntil       time.Time                `json:"valid_until,omitempty"`
	Status           insurance.EReceiptStatus `json:"status"`
	DocumentKey      string                   `json:"document_key,omitempty"`
	MatchedPatientID *uuid.UUID               `json:"matched_patient_id,omitempty"`
	MatchScore       float64                  `json:"match_score,omitempty"`
	RejectReason     string                   `json:"reject_reason,omitempty"`
	ClaimedAt        *time.Time               `json:"claimed_at,omitempty"`
	PaidAt           *time.Time               `json:"paid_at,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// EReceiptListResponse is a paginated e-receipt listing
type EReceiptListResponse struct {
	Receipts []EReceiptResponse `json:"receipts"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
}

// SchemeResponse represents a coverage scheme in API responses
type SchemeResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Bands           []insurance.CoverageBand `json:"bands"`
	CoveragePercent int64                    `json:"coverage_percent"`
	BilateralDouble bool                     `json:"bilateral_double"`
}

// ToEReceiptResponse converts a domain e-receipt to a response DTO
func ToEReceiptResponse(r *insurance.EReceipt) EReceiptResponse {
	return EReceiptResponse{
		ID:               r.ID,
		ReceiptNumber:    r.ReceiptNumber,
		PatientText:      r.PatientText,
		TCKNText:         r.TCKNText,
		Lines:            r.Lines,
		IssuedAt:         r.IssuedAt,
		ValidUntil:       r.ValidUntil,
		Status:           r.Status,
		DocumentKey:      r.DocumentKey,
		MatchedPatientID: r.MatchedPatientID,
		MatchScore:       r.MatchScore,
		RejectReason:     r.RejectReason,
		ClaimedAt:        r.ClaimedAt,
		PaidAt:           r.PaidAt,
		CreatedAt:        r.GetCreatedAt(),
		UpdatedAt:        r.GetUpdatedAt(),
	}
}
