package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/domain/shared"
)

func newTestUnit(t *testing.T) *StockUnit {
	t.Helper()
	u, err := NewStockUnit(uuid.New(), uuid.New(), "SN-2025-00042", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return u
}

func TestNewStockUnit(t *testing.T) {
	t.Run("creates unit in stock", func(t *testing.T) {
		u := newTestUnit(t)
		assert.Equal(t, StockStatusInStock, u.Status)
		assert.True(t, u.IsAvailable())
		assert.Len(t, u.GetDomainEvents(), 1)
	})

	t.Run("rejects empty serial", func(t *testing.T) {
		_, err := NewStockUnit(uuid.New(), uuid.New(), "  ", time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects missing device", func(t *testing.T) {
		_, err := NewStockUnit(uuid.New(), uuid.Nil, "SN-1", time.Now())
		assert.Error(t, err)
	})

	t.Run("defaults received time", func(t *testing.T) {
		u, err := NewStockUnit(uuid.New(), uuid.New(), "SN-1", time.Time{})
		require.NoError(t, err)
		assert.False(t, u.ReceivedAt.IsZero())
	})
}

func TestStockUnitSaleFlow(t *testing.T) {
	t.Run("reserve then deliver", func(t *testing.T) {
		u := newTestUnit(t)
		quoteID := uuid.New()
		patientID := uuid.New()

		require.NoError(t, u.Reserve(quoteID))
		assert.Equal(t, StockStatusReserved, u.Status)
		assert.Equal(t, quoteID, *u.ReservedForQuoteID)
		assert.False(t, u.IsAvailable())

		require.NoError(t, u.Deliver(patientID, time.Now()))
		assert.Equal(t, StockStatusDelivered, u.Status)
		assert.Equal(t, patientID, *u.DeliveredToID)
		assert.Len(t, u.GetDomainEvents(), 2)
	})

	t.Run("reserving a reserved unit reports out of stock", func(t *testing.T) {
		u := newTestUnit(t)
		require.NoError(t, u.Reserve(uuid.New()))
		err := u.Reserve(uuid.New())
		assert.ErrorIs(t, err, shared.ErrOutOfStock)
	})

	t.Run("release reservation frees the unit", func(t *testing.T) {
		u := newTestUnit(t)
		require.NoError(t, u.Reserve(uuid.New()))
		require.NoError(t, u.ReleaseReservation())
		assert.True(t, u.IsAvailable())
		assert.Nil(t, u.ReservedForQuoteID)
	})

	t.Run("cannot deliver from stock without reservation", func(t *testing.T) {
		u := newTestUnit(t)
		assert.Error(t, u.Deliver(uuid.New(), time.Now()))
	})

	t.Run("trial return and restock", func(t *testing.T) {
		u := newTestUnit(t)
		require.NoError(t, u.Reserve(uuid.New()))
		require.NoError(t, u.Deliver(uuid.New(), time.Now()))
		require.NoError(t, u.Return())
		assert.Equal(t, StockStatusReturned, u.Status)
		require.NoError(t, u.Restock())
		assert.True(t, u.IsAvailable())
		assert.Nil(t, u.DeliveredToID)
	})
}

func TestStockUnitRepairFlow(t *testing.T) {
	t.Run("repair from stock returns to stock", func(t *testing.T) {
		u := newTestUnit(t)
		require.NoError(t, u.SendToRepair("mikrofon arızası"))
		assert.Equal(t, StockStatusInRepair, u.Status)
		require.NoError(t, u.CompleteRepair())
		assert.Equal(t, StockStatusInStock, u.Status)
		assert.Empty(t, u.RepairNote)
	})

	t.Run("repair of delivered unit returns to patient", func(t *testing.T) {
		u := newTestUnit(t)
		require.NoError(t, u.Reserve(uuid.New()))
		require.NoError(t, u.Deliver(uuid.New(), time.Now()))
		require.NoError(t, u.SendToRepair("hoparlör değişimi"))
		require.NoError(t, u.CompleteRepair())
		assert.Equal(t, StockStatusDelivered, u.Status)
	})

	t.Run("scrap is terminal", func(t *testing.T) {
		u := newTestUnit(t)
		require.NoError(t, u.Scrap())
		assert.Error(t, u.Reserve(uuid.New()))
		assert.Error(t, u.SendToRepair(""))
	})
}
