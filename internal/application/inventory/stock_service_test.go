package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/domain/inventory"
	"github.com/xear/backend/internal/domain/shared"
)

// MockStockUnitRepository is a mock implementation of StockUnitRepository
type MockStockUnitRepository struct {
	mock.Mock
}

func (m *MockStockUnitRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockUnit, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockUnit), args.Error(1)
}

func (m *MockStockUnitRepository) FindBySerial(ctx context.Context, tenantID uuid.UUID, serialNumber string) (*inventory.StockUnit, error) {
	args := m.Called(ctx, tenantID, serialNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockUnit), args.Error(1)
}

func (m *MockStockUnitRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.StockUnit, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockUnit), args.Error(1)
}

func (m *MockStockUnitRepository) FindByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]*inventory.StockUnit, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockUnit), args.Error(1)
}

func (m *MockStockUnitRepository) FindAvailableByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]*inventory.StockUnit, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockUnit), args.Error(1)
}

func (m *MockStockUnitRepository) CountAvailableByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, deviceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockUnitRepository) Save(ctx context.Context, unit *inventory.StockUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockStockUnitRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func newUnit(t *testing.T, tenantID, deviceID uuid.UUID, serial string) *inventory.StockUnit {
	t.Helper()
	unit, err := inventory.NewStockUnit(tenantID, deviceID, serial, time.Now())
	require.NoError(t, err)
	unit.ClearDomainEvents()
	return unit
}

func TestStockService_Receive(t *testing.T) {
	tenantID := uuid.New()
	deviceID := uuid.New()

	t.Run("one unit per serial", func(t *testing.T) {
		repo := new(MockStockUnitRepository)
		service := NewStockService(repo)

		repo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockUnit")).Return(nil)

		units, err := service.Receive(context.Background(), tenantID, ReceiveStockRequest{
			DeviceID:      deviceID,
			SerialNumbers: []string{"SN-1001", "SN-1002", "SN-1003"},
		})

		require.NoError(t, err)
		assert.Len(t, units, 3)
		assert.Equal(t, inventory.StockStatusInStock, units[0].Status)
		repo.AssertNumberOfCalls(t, "Save", 3)
	})

	t.Run("duplicate serial surfaces from repository", func(t *testing.T) {
		repo := new(MockStockUnitRepository)
		service := NewStockService(repo)

		repo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrSerialInUse)

		_, err := service.Receive(context.Background(), tenantID, ReceiveStockRequest{
			DeviceID:      deviceID,
			SerialNumbers: []string{"SN-1001"},
		})
		assert.ErrorIs(t, err, shared.ErrSerialInUse)
	})
}

func TestStockService_Reserve(t *testing.T) {
	tenantID := uuid.New()
	deviceID := uuid.New()
	quoteID := uuid.New()

	t.Run("reserves the first available unit", func(t *testing.T) {
		repo := new(MockStockUnitRepository)
		service := NewStockService(repo)

		first := newUnit(t, tenantID, deviceID, "SN-2001")
		second := newUnit(t, tenantID, deviceID, "SN-2002")
		repo.On("FindAvailableByDevice", mock.Anything, tenantID, deviceID).Return([]*inventory.StockUnit{first, second}, nil)
		repo.On("Save", mock.Anything, first).Return(nil)

		resp, err := service.Reserve(context.Background(), tenantID, ReserveStockRequest{DeviceID: deviceID, QuoteID: quoteID})

		require.NoError(t, err)
		assert.Equal(t, "SN-2001", resp.SerialNumber)
		assert.Equal(t, inventory.StockStatusReserved, resp.Status)
		require.NotNil(t, resp.ReservedForQuoteID)
		assert.Equal(t, quoteID, *resp.ReservedForQuoteID)
	})

	t.Run("no stock available", func(t *testing.T) {
		repo := new(MockStockUnitRepository)
		service := NewStockService(repo)

		repo.On("FindAvailableByDevice", mock.Anything, tenantID, deviceID).Return([]*inventory.StockUnit{}, nil)

		_, err := service.Reserve(context.Background(), tenantID, ReserveStockRequest{DeviceID: deviceID, QuoteID: quoteID})
		assert.ErrorIs(t, err, shared.ErrOutOfStock)
	})
}

func TestStockService_DeliveryFlow(t *testing.T) {
	tenantID := uuid.New()
	deviceID := uuid.New()
	patientID := uuid.New()

	repo := new(MockStockUnitRepository)
	service := NewStockService(repo)

	unit := newUnit(t, tenantID, deviceID, "SN-3001")
	require.NoError(t, unit.Reserve(uuid.New()))
	repo.On("FindByIDForTenant", mock.Anything, tenantID, unit.ID).Return(unit, nil)
	repo.On("Save", mock.Anything, unit).Return(nil)

	resp, err := service.Deliver(context.Background(), tenantID, unit.ID, DeliverStockRequest{PatientID: patientID})
	require.NoError(t, err)
	assert.Equal(t, inventory.StockStatusDelivered, resp.Status)

	// trial return, then back to the shelf
	resp, err = service.Return(context.Background(), tenantID, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StockStatusReturned, resp.Status)

	resp, err = service.Restock(context.Background(), tenantID, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StockStatusInStock, resp.Status)
	assert.Nil(t, resp.DeliveredToID)
}

func TestStockService_RepairFlow(t *testing.T) {
	tenantID := uuid.New()
	deviceID := uuid.New()
	patientID := uuid.New()

	repo := new(MockStockUnitRepository)
	service := NewStockService(repo)

	unit := newUnit(t, tenantID, deviceID, "SN-4001")
	require.NoError(t, unit.Reserve(uuid.New()))
	require.NoError(t, unit.Deliver(patientID, time.Now()))
	unit.ClearDomainEvents()

	repo.On("FindByIDForTenant", mock.Anything, tenantID, unit.ID).Return(unit, nil)
	repo.On("Save", mock.Anything, unit).Return(nil)

	resp, err := service.SendToRepair(context.Background(), tenantID, unit.ID, SendToRepairRequest{Note: "Hoparlör değişimi"})
	require.NoError(t, err)
	assert.Equal(t, inventory.StockStatusInRepair, resp.Status)

	// repaired unit goes back to the patient who has it
	resp, err = service.CompleteRepair(context.Background(), tenantID, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StockStatusDelivered, resp.Status)
	require.NotNil(t, resp.DeliveredToID)
	assert.Equal(t, patientID, *resp.DeliveredToID)
}
