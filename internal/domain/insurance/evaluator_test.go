package insurance

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

func defaultEvaluator() *TableEvaluator {
	return NewTableEvaluator(NewStaticSchemeProvider(DefaultSchemes()), "tenant-1")
}

func TestCoverageBand_Matches(t *testing.T) {
	band := CoverageBand{MinAge: 18, MaxAge: 0}
	assert.False(t, band.Matches(17))
	assert.True(t, band.Matches(18))
	assert.True(t, band.Matches(95))

	child := CoverageBand{MinAge: 0, MaxAge: 17}
	assert.True(t, child.Matches(0))
	assert.True(t, child.Matches(17))
	assert.False(t, child.Matches(18))
}

func TestScheme_Validate(t *testing.T) {
	valid := DefaultSchemes()[0]
	require.NoError(t, valid.Validate())

	noID := valid
	noID.ID = ""
	assert.Error(t, noID.Validate())

	noBands := valid
	noBands.Bands = nil
	assert.Error(t, noBands.Validate())

	badPercent := valid
	badPercent.CoveragePercent = decimal.NewFromInt(101)
	assert.Error(t, badPercent.Validate())
}

func TestTableEvaluator_RetiredSingleEar(t *testing.T) {
	assessment, err := defaultEvaluator().Evaluate(context.Background(), pricing.AssessmentInput{
		SchemeID:      SchemeSGKRetired,
		PatientAge:    70,
		TaxableAmount: valueobject.NewMoneyTRYFromFloat(8000),
		Bilateral:     false,
	})
	require.NoError(t, err)

	assert.True(t, assessment.Eligible)
	// 3600 * 90% = 3240
	assert.Equal(t, "3240.00", assessment.Deduction.StringFixed(2))
	assert.Equal(t, "3240.00", assessment.InsurerPayment.StringFixed(2))
}

func TestTableEvaluator_BilateralDoublesContribution(t *testing.T) {
	assessment, err := defaultEvaluator().Evaluate(context.Background(), pricing.AssessmentInput{
		SchemeID:      SchemeSGKRetired,
		PatientAge:    70,
		TaxableAmount: valueobject.NewMoneyTRYFromFloat(16000),
		Bilateral:     true,
	})
	require.NoError(t, err)

	// 3600 * 2 * 90% = 6480
	assert.Equal(t, "6480.00", assessment.InsurerPayment.StringFixed(2))
}

func TestTableEvaluator_DeductionCappedAtTaxable(t *testing.T) {
	assessment, err := defaultEvaluator().Evaluate(context.Background(), pricing.AssessmentInput{
		SchemeID:      SchemeSGKChild,
		PatientAge:    8,
		TaxableAmount: valueobject.NewMoneyTRYFromFloat(2000),
		Bilateral:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, "2000.00", assessment.InsurerPayment.StringFixed(2))
}

func TestTableEvaluator_AgeOutsideBandsNotEligible(t *testing.T) {
	// child scheme does not cover adults
	assessment, err := defaultEvaluator().Evaluate(context.Background(), pricing.AssessmentInput{
		SchemeID:      SchemeSGKChild,
		PatientAge:    30,
		TaxableAmount: valueobject.NewMoneyTRYFromFloat(8000),
	})
	require.NoError(t, err)
	assert.False(t, assessment.Eligible)
	assert.True(t, assessment.InsurerPayment.IsZero())
}

func TestTableEvaluator_UnknownSchemeNotEligible(t *testing.T) {
	assessment, err := defaultEvaluator().Evaluate(context.Background(), pricing.AssessmentInput{
		SchemeID:      "private-acme",
		PatientAge:    40,
		TaxableAmount: valueobject.NewMoneyTRYFromFloat(8000),
	})
	require.NoError(t, err)
	assert.False(t, assessment.Eligible)
}

type failingProvider struct{}

func (failingProvider) GetScheme(context.Context, string, string) (*Scheme, error) {
	return nil, errors.New("redis: connection refused")
}

func TestTableEvaluator_ProviderFailurePropagates(t *testing.T) {
	evaluator := NewTableEvaluator(failingProvider{}, "tenant-1")
	_, err := evaluator.Evaluate(context.Background(), pricing.AssessmentInput{
		SchemeID:      SchemeSGKRetired,
		PatientAge:    70,
		TaxableAmount: valueobject.NewMoneyTRYFromFloat(8000),
	})
	assert.Error(t, err)
}
