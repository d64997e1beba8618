package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"uppercase ASC", "ASC", "ASC"},
		{"lowercase asc", "asc", "ASC"},
		{"mixed case with spaces", "  Asc ", "ASC"},
		{"uppercase DESC", "DESC", "DESC"},
		{"lowercase desc", "desc", "DESC"},
		{"empty defaults to DESC", "", "DESC"},
		{"garbage defaults to DESC", "sideways", "DESC"},
		{"injection attempt defaults to DESC", "ASC; DROP TABLE patients", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("passes whitelisted field through", func(t *testing.T) {
		assert.Equal(t, "last_name", ValidateSortField("last_name", PatientSortFields, "created_at"))
	})

	t.Run("empty falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("", PatientSortFields, "created_at"))
	})

	t.Run("whitespace falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("   ", PatientSortFields, "created_at"))
	})

	t.Run("unknown field falls back to default", func(t *testing.T) {
		assert.Equal(t, "start_at", ValidateSortField("secret_column", AppointmentSortFields, "start_at"))
	})

	t.Run("injection attempt falls back to default", func(t *testing.T) {
		assert.Equal(t, "issued_at", ValidateSortField("issued_at; DELETE FROM invoices", InvoiceSortFields, "issued_at"))
	})
}

func TestSortFieldWhitelists(t *testing.T) {
	t.Run("all whitelists allow the base columns", func(t *testing.T) {
		whitelists := map[string]map[string]bool{
			"user":        UserSortFields,
			"tenant":      TenantSortFields,
			"patient":     PatientSortFields,
			"appointment": AppointmentSortFields,
			"device":      DeviceSortFields,
			"stock_unit":  StockUnitSortFields,
			"quote":       QuoteSortFields,
			"invoice":     InvoiceSortFields,
			"ereceipt":    EReceiptSortFields,
		}
		for name, fields := range whitelists {
			for common := range CommonSortFields {
				assert.True(t, fields[common], "%s whitelist is missing %s", name, common)
			}
		}
	})

	t.Run("domain columns are sortable", func(t *testing.T) {
		assert.True(t, PatientSortFields["tckn"] == false, "tckn is not a sort column")
		assert.True(t, AppointmentSortFields["start_at"])
		assert.True(t, QuoteSortFields["quote_number"])
		assert.True(t, InvoiceSortFields["invoice_number"])
		assert.True(t, EReceiptSortFields["valid_until"])
		assert.True(t, StockUnitSortFields["serial_number"])
	})
}
