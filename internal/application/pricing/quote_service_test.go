package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// MockQuoteRepository is a mock implementation of QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.SaleQuote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.SaleQuote), args.Error(1)
}

func (m *MockQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pricing.SaleQuote, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.SaleQuote), args.Error(1)
}

func (m *MockQuoteRepository) FindByQuoteNumber(ctx context.Context, tenantID uuid.UUID, quoteNumber string) (*pricing.SaleQuote, error) {
	args := m.Called(ctx, tenantID, quoteNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.SaleQuote), args.Error(1)
}

func (m *MockQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pricing.SaleQuote, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.SaleQuote), args.Error(1)
}

func (m *MockQuoteRepository) FindByPatient(ctx context.Context, tenantID, patientID uuid.UUID, filter shared.Filter) ([]pricing.SaleQuote, error) {
	args := m.Called(ctx, tenantID, patientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.SaleQuote), args.Error(1)
}

func (m *MockQuoteRepository) Save(ctx context.Context, quote *pricing.SaleQuote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) SaveWithLock(ctx context.Context, quote *pricing.SaleQuote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) GenerateQuoteNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func intPtr(v int) *int { return &v }

func try(amount float64) valueobject.Money {
	return valueobject.NewMoneyTRYFromFloat(amount)
}

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestQuoteService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates draft quote with items", func(t *testing.T) {
		repo := new(MockQuoteRepository)
		service := NewQuoteService(repo, nil)

		repo.On("GenerateQuoteNumber", mock.Anything, tenantID).Return("Q-2025-00001", nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*pricing.SaleQuote")).Return(nil)

		resp, err := service.Create(context.Background(), tenantID, CreateQuoteRequest{
			PatientID:   uuid.New(),
			PatientName: "Ayşe Yılmaz",
			Items: []CreateQuoteItemInput{
				{Name: "Signia Pure 312 7X", ListPrice: decimal.NewFromInt(8000), Quantity: 1},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "Q-2025-00001", resp.QuoteNumber)
		assert.Equal(t, pricing.QuoteStatusDraft, resp.Status)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(8000)))
		repo.AssertExpectations(t)
	})

	t.Run("item discount and ear side applied on create", func(t *testing.T) {
		repo := new(MockQuoteRepository)
		service := NewQuoteService(repo, nil)

		repo.On("GenerateQuoteNumber", mock.Anything, tenantID).Return("Q-2025-00002", nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		side := pricing.EarSideLeft
		resp, err := service.Create(context.Background(), tenantID, CreateQuoteRequest{
			PatientID:   uuid.New(),
			PatientName: "Ayşe Yılmaz",
			Items: []CreateQuoteItemInput{
				{Name: "Cihaz", ListPrice: decimal.NewFromInt(600), Quantity: 2, Discount: decPtr("10"), EarSide: side},
			},
		})

		require.NoError(t, err)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(1080)))
		assert.Equal(t, side, resp.Items[0].EarSide)
	})

	t.Run("number generation failure surfaces", func(t *testing.T) {
		repo := new(MockQuoteRepository)
		service := NewQuoteService(repo, nil)

		repo.On("GenerateQuoteNumber", mock.Anything, tenantID).Return("", errors.New("sequence unavailable"))

		_, err := service.Create(context.Background(), tenantID, CreateQuoteRequest{
			PatientID:   uuid.New(),
			PatientName: "X",
		})
		assert.Error(t, err)
	})
}

func newDraftQuote(t *testing.T, tenantID uuid.UUID) *pricing.SaleQuote {
	t.Helper()
	quote, err := pricing.NewSaleQuote(tenantID, "Q-2025-00042", uuid.New(), "Ayşe Yılmaz")
	require.NoError(t, err)
	return quote
}

func TestQuoteService_UpdateOptions(t *testing.T) {
	tenantID := uuid.New()

	t.Run("insurance assessment runs on option change", func(t *testing.T) {
		repo := new(MockQuoteRepository)
		evaluator := pricing.EvaluatorFunc(func(ctx context.Context, in pricing.AssessmentInput) (pricing.Assessment, error) {
			deduction := try(3600)
			return pricing.Assessment{Eligible: true, Deduction: deduction, InsurerPayment: deduction}, nil
		})
		service := NewQuoteService(repo, evaluator)

		quote := newDraftQuote(t, tenantID)
		_, err := quote.AddItem("Cihaz", try(8000), nil, 1)
		require.NoError(t, err)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, quote.ID).Return(quote, nil)
		repo.On("SaveWithLock", mock.Anything, quote).Return(nil)

		resp, err := service.UpdateOptions(context.Background(), tenantID, quote.ID, UpdateQuoteOptionsRequest{
			VATRate:    decPtr("0.08"),
			SchemeID:   strPtr("sgk-retired"),
			PatientAge: intPtr(67),
		})

		require.NoError(t, err)
		assert.True(t, resp.SGKEligible)
		assert.True(t, resp.SGKDeduction.Equal(decimal.NewFromInt(3600)))
		assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(8640)))
		assert.True(t, resp.PatientPayment.Equal(decimal.NewFromInt(5040)))
	})

	t.Run("evaluator failure surfaces and nothing is saved", func(t *testing.T) {
		repo := new(MockQuoteRepository)
		evaluator := pricing.EvaluatorFunc(func(ctx context.Context, in pricing.AssessmentInput) (pricing.Assessment, error) {
			return pricing.Assessment{}, errors.New("scheme store down")
		})
		service := NewQuoteService(repo, evaluator)

		quote := newDraftQuote(t, tenantID)
		_, err := quote.AddItem("Cihaz", try(8000), nil, 1)
		require.NoError(t, err)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, quote.ID).Return(quote, nil)

		_, err = service.UpdateOptions(context.Background(), tenantID, quote.ID, UpdateQuoteOptionsRequest{
			SchemeID:   strPtr("sgk-retired"),
			PatientAge: intPtr(67),
		})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestQuoteService_ItemOperations(t *testing.T) {
	tenantID := uuid.New()

	t.Run("add update remove item", func(t *testing.T) {
		repo := new(MockQuoteRepository)
		service := NewQuoteService(repo, nil)

		quote := newDraftQuote(t, tenantID)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, quote.ID).Return(quote, nil)
		repo.On("SaveWithLock", mock.Anything, quote).Return(nil)

		resp, err := service.AddItem(context.Background(), tenantID, quote.ID, AddQuoteItemRequest{
			Name: "Kulak kalıbı", ListPrice: decimal.NewFromInt(1500), Quantity: 2,
		})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		itemID := resp.Items[0].ID

		resp, err = service.UpdateItem(context.Background(), tenantID, quote.ID, itemID, UpdateQuoteItemRequest{
			Quantity: intPtr(1),
		})
		require.NoError(t, err)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(1500)))

		resp, err = service.RemoveItem(context.Background(), tenantID, quote.ID, itemID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
	})

	t.Run("missing quote surfaces repository error", func(t *testing.T) {
		repo := new(MockQuoteRepository)
		service := NewQuoteService(repo, nil)

		quoteID := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, quoteID).Return(nil, shared.ErrNotFound)

		_, err := service.RemoveItem(context.Background(), tenantID, quoteID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("insurance assessment tracks item changes", func(t *testing.T) {
		repo := new(MockQuoteRepository)
		// pays half of whatever is taxable at evaluation time
		evaluator := pricing.EvaluatorFunc(func(ctx context.Context, in pricing.AssessmentInput) (pricing.Assessment, error) {
			half := valueobject.NewMoneyTRY(in.TaxableAmount.Amount().Div(decimal.NewFromInt(2)))
			return pricing.Assessment{Eligible: true, Deduction: half, InsurerPayment: half}, nil
		})
		service := NewQuoteService(repo, evaluator)

		quote := newDraftQuote(t, tenantID)
		_, err := quote.AddItem("Sol cihaz", try(1000), nil, 1)
		require.NoError(t, err)
		require.NoError(t, quote.UpdateOptions(pricing.OptionsPatch{
			SchemeID:   strPtr("sgk-active"),
			PatientAge: intPtr(40),
		}))
		_, err = quote.Compute(context.Background(), evaluator)
		require.NoError(t, err)
		require.True(t, quote.InsurerPayment.Equal(decimal.NewFromInt(500)))

		repo.On("FindByIDForTenant", mock.Anything, tenantID, quote.ID).Return(quote, nil)
		repo.On("SaveWithLock", mock.Anything, quote).Return(nil)

		resp, err := service.AddItem(context.Background(), tenantID, quote.ID, AddQuoteItemRequest{
			Name: "Sağ cihaz", ListPrice: decimal.NewFromInt(1000), Quantity: 1,
		})
		require.NoError(t, err)
		assert.True(t, resp.TaxableAmount.Equal(decimal.NewFromInt(2000)))
		assert.True(t, resp.InsurerPayment.Equal(decimal.NewFromInt(1000)), "insurer share must follow the new taxable amount")
		assert.True(t, resp.PatientPayment.Equal(decimal.NewFromInt(1000)))

		resp, err = service.RemoveItem(context.Background(), tenantID, quote.ID, resp.Items[1].ID)
		require.NoError(t, err)
		assert.True(t, resp.InsurerPayment.Equal(decimal.NewFromInt(500)))
		assert.True(t, resp.PatientPayment.Equal(decimal.NewFromInt(500)))
	})
}

func TestQuoteService_Finalize(t *testing.T) {
	tenantID := uuid.New()

	t.Run("finalize publishes events", func(t *testing.T) {
		repo := new(MockQuoteRepository)
		publisher := new(MockEventPublisher)
		service := NewQuoteService(repo, nil)
		service.SetEventPublisher(publisher)

		quote := newDraftQuote(t, tenantID)
		quote.ClearDomainEvents()
		_, err := quote.AddItem("Cihaz", try(8000), nil, 1)
		require.NoError(t, err)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, quote.ID).Return(quote, nil)
		repo.On("SaveWithLock", mock.Anything, quote).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := service.Finalize(context.Background(), tenantID, quote.ID)
		require.NoError(t, err)
		assert.Equal(t, pricing.QuoteStatusFinalized, resp.Status)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
		assert.Empty(t, quote.GetDomainEvents())
	})

	t.Run("empty quote cannot be finalized", func(t *testing.T) {
		repo := new(MockQuoteRepository)
		service := NewQuoteService(repo, nil)

		quote := newDraftQuote(t, tenantID)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, quote.ID).Return(quote, nil)

		_, err := service.Finalize(context.Background(), tenantID, quote.ID)
		assert.Error(t, err)
	})
}

func TestQuoteService_Preview(t *testing.T) {
	service := NewQuoteService(new(MockQuoteRepository), nil)

	resp := service.Preview(PreviewRequest{
		ListPrice: decimal.NewFromInt(1200),
		Quantity:  1,
		Discount:  decPtr("10"),
		VATRate:   decimal.RequireFromString("0.18"),
	})

	assert.True(t, resp.GrossTotal.Equal(decimal.NewFromInt(1200)))
	assert.True(t, resp.DiscountAmount.Equal(decimal.NewFromInt(120)))
	assert.True(t, resp.NetTotal.Equal(decimal.NewFromInt(1080)))
	assert.True(t, resp.TaxAmount.Equal(decimal.RequireFromString("194.4")))
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("1274.4")))
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }
