package insurance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
)

// EReceiptStatus represents the claim lifecycle of an SGK e-receipt
type EReceiptStatus string

const (
	EReceiptStatusPending  EReceiptStatus = "PENDING"  // uploaded, not yet matched to a patient
	EReceiptStatusMatched  EReceiptStatus = "MATCHED"  // linked to a patient record
	EReceiptStatusClaimed  EReceiptStatus = "CLAIMED"  // submitted to SGK for reimbursement
	EReceiptStatusPaid     EReceiptStatus = "PAID"     // reimbursement received
	EReceiptStatusRejected EReceiptStatus = "REJECTED" // SGK rejected the claim
)

// IsValid checks if the status is a valid EReceiptStatus
func (s EReceiptStatus) IsValid() bool {
	switch s {
	case EReceiptStatusPending, EReceiptStatusMatched, EReceiptStatusClaimed, EReceiptStatusPaid, EReceiptStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s EReceiptStatus) CanTransitionTo(target EReceiptStatus) bool {
	switch s {
	case EReceiptStatusPending:
		return target == EReceiptStatusMatched || target == EReceiptStatusRejected
	case EReceiptStatusMatched:
		return target == EReceiptStatusClaimed || target == EReceiptStatusRejected
	case EReceiptStatusClaimed:
		return target == EReceiptStatusPaid || target == EReceiptStatusRejected
	case EReceiptStatusPaid, EReceiptStatusRejected:
		return false
	}
	return false
}

// EReceiptLine is one prescribed device/material line on the receipt
type EReceiptLine struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Barcode     string `json:"barcode,omitempty"`
}

// EReceipt is the aggregate for an SGK e-reçete uploaded to the clinic.
// The text fields come from the (out-of-scope) OCR step; matching links the
// receipt to a patient record by heuristic text comparison.
type EReceipt struct {
	shared.TenantAggregateRoot
	ReceiptNumber string
	PatientText   string // patient name as it appears on the receipt
	TCKNText      string // national ID as extracted, may be partial
	Lines         []EReceiptLine
	IssuedAt      time.Time
	ValidUntil    time.Time
	Status        EReceiptStatus
	DocumentKey   string // object storage key of the uploaded scan

	MatchedPatientID *uuid.UUID
	MatchScore       float64
	RejectReason     string
	ClaimedAt        *time.Time
	PaidAt           *time.Time
}

// NewEReceipt registers an uploaded e-receipt
func NewEReceipt(tenantID uuid.UUID, receiptNumber, patientText, tcknText string, issuedAt, validUntil time.Time) (*EReceipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if issuedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_ISSUE_DATE", "Issue date is required")
	}
	if !validUntil.IsZero() && validUntil.Before(issuedAt) {
		return nil, shared.NewDomainError("INVALID_VALIDITY", "Validity end cannot precede the issue date")
	}

	return &EReceipt{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReceiptNumber:       receiptNumber,
		PatientText:         patientText,
		TCKNText:            tcknText,
		Lines:               make([]EReceiptLine, 0),
		IssuedAt:            issuedAt,
		ValidUntil:          validUntil,
		Status:              EReceiptStatusPending,
	}, nil
}

// AddLine appends a device/material line
func (r *EReceipt) AddLine(description string, quantity int, barcode string) error {
	if description == "" {
		return shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	r.Lines = append(r.Lines, EReceiptLine{Description: description, Quantity: quantity, Barcode: barcode})
	r.Touch()
	return nil
}

// AttachDocument records the object storage key of the uploaded scan
func (r *EReceipt) AttachDocument(key string) {
	r.DocumentKey = key
	r.Touch()
}

// IsExpired reports whether the receipt validity window has passed
func (r *EReceipt) IsExpired(now time.Time) bool {
	return !r.ValidUntil.IsZero() && now.After(r.ValidUntil)
}

// Match links the receipt to a patient record with the given match score
func (r *EReceipt) Match(patientID uuid.UUID, score float64) error {
	if !r.Status.CanTransitionTo(EReceiptStatusMatched) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot match receipt in %s status", r.Status))
	}
	if patientID == uuid.Nil {
		return shared.NewDomainError("INVALID_PATIENT", "Patient ID cannot be empty")
	}

	r.MatchedPatientID = &patientID
	r.MatchScore = score
	r.Status = EReceiptStatusMatched
	r.Touch()
	return nil
}

// Claim marks the receipt as submitted to SGK
func (r *EReceipt) Claim(now time.Time) error {
	if !r.Status.CanTransitionTo(EReceiptStatusClaimed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot claim receipt in %s status", r.Status))
	}
	if r.IsExpired(now) {
		return shared.NewDomainError("RECEIPT_EXPIRED", "Receipt validity window has passed")
	}

	r.Status = EReceiptStatusClaimed
	r.ClaimedAt = &now
	r.Touch()
	return nil
}

// MarkPaid records the reimbursement
func (r *EReceipt) MarkPaid(now time.Time) error {
	if !r.Status.CanTransitionTo(EReceiptStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark receipt paid in %s status", r.Status))
	}
	r.Status = EReceiptStatusPaid
	r.PaidAt = &now
	r.Touch()
	return nil
}

// Reject marks the receipt as rejected
func (r *EReceipt) Reject(reason string) error {
	if !r.Status.CanTransitionTo(EReceiptStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject receipt in %s status", r.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required")
	}
	r.Status = EReceiptStatusRejected
	r.RejectReason = reason
	r.Touch()
	return nil
}
