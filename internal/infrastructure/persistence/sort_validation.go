package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// TenantSortFields contains allowed sort fields for tenants
var TenantSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
}

// PatientSortFields contains allowed sort fields for patients
var PatientSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"first_name": true,
	"last_name":  true,
	"birth_date": true,
	"phone":      true,
	"sgk_status": true,
	"status":     true,
}

// AppointmentSortFields contains allowed sort fields for appointments
var AppointmentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"patient_id":   true,
	"clinician_id": true,
	"type":         true,
	"status":       true,
	"start_at":     true,
	"end_at":       true,
}

// DeviceSortFields contains allowed sort fields for hearing device catalog entries
var DeviceSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"brand":           true,
	"model":           true,
	"type":            true,
	"list_price":      true,
	"channels":        true,
	"warranty_months": true,
	"status":          true,
}

// StockUnitSortFields contains allowed sort fields for serialized stock units
var StockUnitSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"device_id":     true,
	"serial_number": true,
	"status":        true,
	"received_at":   true,
	"delivered_at":  true,
}

// QuoteSortFields contains allowed sort fields for sale quotes
var QuoteSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"quote_number": true,
	"patient_id":   true,
	"status":       true,
	"grand_total":  true,
	"finalized_at": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"patient_id":     true,
	"patient_name":   true,
	"status":         true,
	"grand_total":    true,
	"paid_amount":    true,
	"issued_at":      true,
	"due_at":         true,
	"efatura_status": true,
}

// EReceiptSortFields contains allowed sort fields for SGK e-receipts
var EReceiptSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"receipt_number": true,
	"status":         true,
	"issued_at":      true,
	"valid_until":    true,
	"match_score":    true,
	"claimed_at":     true,
	"paid_at":        true,
}
