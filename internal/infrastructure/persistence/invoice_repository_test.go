package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/domain/billing"
	"github.com/xear/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockInvoiceRepository creates a GormInvoiceRepository with a mocked SQL connection
func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

const invoiceLinesJSON = `[{"description":"Signia Pure 312 7X","quantity":1,"unit_price":{"amount":"42000","currency":"TRY"},"net_total":{"amount":"42000","currency":"TRY"}}]`

func invoiceRows(invoiceID, tenantID uuid.UUID, number string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "invoice_number", "quote_id", "patient_id", "patient_name",
		"lines", "issued_at", "due_at", "grand_total", "patient_payment", "paid_amount", "status", "efatura_status",
	}).AddRow(
		invoiceID, tenantID, number, uuid.New(), uuid.New(), "Ayşe Kaya",
		invoiceLinesJSON, now, now.AddDate(0, 1, 0), "45360", "8160", "0", "ISSUED", "NONE",
	)
}

func TestGormInvoiceRepository_FindByIDForTenant(t *testing.T) {
	t.Run("decodes jsonb lines into the aggregate", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, invoiceID, 1).
			WillReturnRows(invoiceRows(invoiceID, tenantID, "XE-2026-00005"))

		invoice, err := repo.FindByIDForTenant(context.Background(), tenantID, invoiceID)

		assert.NoError(t, err)
		require.NotNil(t, invoice)
		assert.Equal(t, "XE-2026-00005", invoice.InvoiceNumber)
		require.Len(t, invoice.Lines, 1)
		assert.Equal(t, "Signia Pure 312 7X", invoice.Lines[0].Description)
		assert.Equal(t, "42000", invoice.Lines[0].UnitPrice.Amount().String())
		assert.Equal(t, billing.InvoiceStatusIssued, invoice.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not-found sentinel for missing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())

		assert.True(t, shared.IsNotFound(err))
		assert.Nil(t, invoice)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_GenerateInvoiceNumber(t *testing.T) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("XE-%d-", year)

	t.Run("starts at 00001 when the year has no invoices", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND invoice_number LIKE \$2 ORDER BY invoice_number DESC.*`).
			WithArgs(tenantID, prefix+"%", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE tenant_id = \$1 AND invoice_number = \$2`).
			WithArgs(tenantID, prefix+"00001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.GenerateInvoiceNumber(context.Background(), tenantID)

		assert.NoError(t, err)
		assert.Equal(t, prefix+"00001", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments the highest existing number", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND invoice_number LIKE \$2 ORDER BY invoice_number DESC.*`).
			WithArgs(tenantID, prefix+"%", 1).
			WillReturnRows(invoiceRows(uuid.New(), tenantID, prefix+"00041"))

		mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE tenant_id = \$1 AND invoice_number = \$2`).
			WithArgs(tenantID, prefix+"00042").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.GenerateInvoiceNumber(context.Background(), tenantID)

		assert.NoError(t, err)
		assert.Equal(t, prefix+"00042", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips past a taken number", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND invoice_number LIKE \$2 ORDER BY invoice_number DESC.*`).
			WithArgs(tenantID, prefix+"%", 1).
			WillReturnRows(invoiceRows(uuid.New(), tenantID, prefix+"00007"))

		mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE tenant_id = \$1 AND invoice_number = \$2`).
			WithArgs(tenantID, prefix+"00008").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE tenant_id = \$1 AND invoice_number = \$2`).
			WithArgs(tenantID, prefix+"00009").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.GenerateInvoiceNumber(context.Background(), tenantID)

		assert.NoError(t, err)
		assert.Equal(t, prefix+"00009", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindOverdue(t *testing.T) {
	t.Run("filters to open invoices past due", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE \(tenant_id = \$1 AND due_at < \$2\) AND status IN \(\$3,\$4\).*`).
			WithArgs(tenantID, sqlmock.AnyArg(), "ISSUED", "PARTIALLY_PAID", 20).
			WillReturnRows(invoiceRows(uuid.New(), tenantID, "XE-2026-00003"))

		invoices, err := repo.FindOverdue(context.Background(), tenantID, shared.DefaultFilter())

		assert.NoError(t, err)
		assert.Len(t, invoices, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
