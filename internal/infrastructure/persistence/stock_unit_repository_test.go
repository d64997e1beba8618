package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/domain/inventory"
	"github.com/xear/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockStockUnitRepository creates a GormStockUnitRepository with a mocked SQL connection
func newMockStockUnitRepository(t *testing.T) (*GormStockUnitRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormStockUnitRepository(gormDB), mock, mockDB
}

func stockUnitRows(unitID, tenantID, deviceID uuid.UUID, serial string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "device_id", "serial_number", "status", "received_at",
	}).AddRow(unitID, tenantID, deviceID, serial, "IN_STOCK", time.Now())
}

func TestGormStockUnitRepository_FindBySerial(t *testing.T) {
	t.Run("finds unit by serial number", func(t *testing.T) {
		repo, mock, mockDB := newMockStockUnitRepository(t)
		defer mockDB.Close()

		unitID := uuid.New()
		tenantID := uuid.New()
		deviceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_units" WHERE tenant_id = \$1 AND serial_number = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, "SN-2024-0042", 1).
			WillReturnRows(stockUnitRows(unitID, tenantID, deviceID, "SN-2024-0042"))

		unit, err := repo.FindBySerial(context.Background(), tenantID, "SN-2024-0042")

		assert.NoError(t, err)
		assert.NotNil(t, unit)
		assert.Equal(t, "SN-2024-0042", unit.SerialNumber)
		assert.Equal(t, inventory.StockStatusInStock, unit.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty serial without querying", func(t *testing.T) {
		repo, mock, mockDB := newMockStockUnitRepository(t)
		defer mockDB.Close()

		unit, err := repo.FindBySerial(context.Background(), uuid.New(), "  ")

		assert.Error(t, err)
		assert.Nil(t, unit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockUnitRepository_Save(t *testing.T) {
	t.Run("rejects serial registered to another unit", func(t *testing.T) {
		repo, mock, mockDB := newMockStockUnitRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		unit, err := inventory.NewStockUnit(tenantID, uuid.New(), "SN-2024-0042", time.Now())
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_units" WHERE tenant_id = \$1 AND serial_number = \$2 AND id <> \$3`).
			WithArgs(tenantID, "SN-2024-0042", unit.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err = repo.Save(context.Background(), unit)

		assert.ErrorIs(t, err, shared.ErrSerialInUse)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockUnitRepository_CountAvailableByDevice(t *testing.T) {
	t.Run("counts only in-stock units", func(t *testing.T) {
		repo, mock, mockDB := newMockStockUnitRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		deviceID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_units" WHERE tenant_id = \$1 AND device_id = \$2 AND status = \$3`).
			WithArgs(tenantID, deviceID, "IN_STOCK").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountAvailableByDevice(context.Background(), tenantID, deviceID)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockUnitRepository_FindAvailableByDevice(t *testing.T) {
	t.Run("orders available units oldest first", func(t *testing.T) {
		repo, mock, mockDB := newMockStockUnitRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		deviceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_units" WHERE tenant_id = \$1 AND device_id = \$2 AND status = \$3 ORDER BY received_at ASC`).
			WithArgs(tenantID, deviceID, "IN_STOCK").
			WillReturnRows(stockUnitRows(uuid.New(), tenantID, deviceID, "SN-2024-0001"))

		units, err := repo.FindAvailableByDevice(context.Background(), tenantID, deviceID)

		assert.NoError(t, err)
		assert.Len(t, units, 1)
		assert.Equal(t, deviceID, units[0].DeviceID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
	assert.True(t, isUniqueViolation(errDuplicateKey{}))
}

type errDuplicateKey struct{}

func (errDuplicateKey) Error() string {
	return `duplicate key value violates unique constraint "idx_stock_tenant_serial" (SQLSTATE 23505)`
}
