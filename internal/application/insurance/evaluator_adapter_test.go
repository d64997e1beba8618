package insurance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xear/backend/internal/domain/insurance"
	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
	"github.com/xear/backend/internal/infrastructure/logger"
)

func tenantContext(t *testing.T, tenantID uuid.UUID) context.Context {
	t.Helper()
	ctx, _ := logger.WithTenantID(context.Background(), zap.NewNop(), tenantID.String())
	return ctx
}

func TestContextEvaluator_NoTenantInContext(t *testing.T) {
	repo := new(MockSchemeRepository)
	evaluator := NewContextEvaluator(NewSchemeService(repo))

	assessment, err := evaluator.Evaluate(context.Background(), pricing.AssessmentInput{
		SchemeID:      insurance.SchemeSGKActive,
		PatientAge:    45,
		TaxableAmount: valueobject.NewMoneyTRYFromFloat(20000),
	})

	require.NoError(t, err)
	assert.False(t, assessment.Eligible)
	assert.True(t, assessment.Deduction.IsZero())
	repo.AssertNotCalled(t, "FindByID")
}

func TestContextEvaluator_DefaultScheme(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockSchemeRepository)
	repo.On("FindByID", mock.Anything, tenantID, insurance.SchemeSGKRetired).
		Return(nil, shared.ErrNotFound)

	evaluator := NewContextEvaluator(NewSchemeService(repo))

	assessment, err := evaluator.Evaluate(tenantContext(t, tenantID), pricing.AssessmentInput{
		SchemeID:      insurance.SchemeSGKRetired,
		PatientAge:    67,
		TaxableAmount: valueobject.NewMoneyTRYFromFloat(20000),
	})

	require.NoError(t, err)
	assert.True(t, assessment.Eligible)
	// 3600 contribution at 90% coverage
	assert.True(t, assessment.Deduction.Amount().Equal(decimal.NewFromInt(3240)),
		"deduction was %s", assessment.Deduction.Amount())
	repo.AssertExpectations(t)
}

func TestContextEvaluator_TenantOverride(t *testing.T) {
	tenantID := uuid.New()
	override := &insurance.Scheme{
		ID:   insurance.SchemeSGKActive,
		Name: "SGK Çalışan (anlaşmalı)",
		Bands: []insurance.CoverageBand{
			{MinAge: 18, MaxAge: 0, Contribution: decimal.NewFromInt(5000)},
		},
		CoveragePercent: decimal.NewFromInt(80),
		BilateralDouble: true,
	}
	repo := new(MockSchemeRepository)
	repo.On("FindByID", mock.Anything, tenantID, insurance.SchemeSGKActive).
		Return(override, nil)

	evaluator := NewContextEvaluator(NewSchemeService(repo))

	assessment, err := evaluator.Evaluate(tenantContext(t, tenantID), pricing.AssessmentInput{
		SchemeID:      insurance.SchemeSGKActive,
		PatientAge:    40,
		TaxableAmount: valueobject.NewMoneyTRYFromFloat(30000),
		Bilateral:     true,
	})

	require.NoError(t, err)
	assert.True(t, assessment.Eligible)
	// bilateral doubles the 5000 contribution, then 80% coverage
	assert.True(t, assessment.Deduction.Amount().Equal(decimal.NewFromInt(8000)),
		"deduction was %s", assessment.Deduction.Amount())
	repo.AssertExpectations(t)
}

func TestContextEvaluator_UnknownScheme(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockSchemeRepository)
	repo.On("FindByID", mock.Anything, tenantID, "private-axa").
		Return(nil, shared.ErrNotFound)

	evaluator := NewContextEvaluator(NewSchemeService(repo))

	assessment, err := evaluator.Evaluate(tenantContext(t, tenantID), pricing.AssessmentInput{
		SchemeID:      "private-axa",
		PatientAge:    30,
		TaxableAmount: valueobject.NewMoneyTRYFromFloat(10000),
	})

	require.NoError(t, err)
	assert.False(t, assessment.Eligible)
	repo.AssertExpectations(t)
}
