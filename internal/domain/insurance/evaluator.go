package insurance

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// SchemeProvider looks up scheme definitions. Implementations are expected
// to sit in front of a cache; lookups run on every quote recomputation.
type SchemeProvider interface {
	GetScheme(ctx context.Context, tenantID, schemeID string) (*Scheme, error)
}

// TableEvaluator evaluates coverage from banded scheme tables. It implements
// pricing.SchemeEvaluator. An unknown scheme is a normal not-eligible result;
// provider infrastructure failures propagate as errors.
type TableEvaluator struct {
	provider SchemeProvider
	tenantID string
}

// NewTableEvaluator creates an evaluator bound to one tenant's scheme tables
func NewTableEvaluator(provider SchemeProvider, tenantID string) *TableEvaluator {
	return &TableEvaluator{provider: provider, tenantID: tenantID}
}

// Evaluate implements pricing.SchemeEvaluator
func (e *TableEvaluator) Evaluate(ctx context.Context, input pricing.AssessmentInput) (pricing.Assessment, error) {
	scheme, err := e.provider.GetScheme(ctx, e.tenantID, input.SchemeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return pricing.NotEligible(), nil
		}
		return pricing.Assessment{}, fmt.Errorf("scheme lookup failed: %w", err)
	}

	band := scheme.BandFor(input.PatientAge)
	if band == nil {
		return pricing.NotEligible(), nil
	}

	contribution := band.Contribution
	if input.Bilateral && scheme.BilateralDouble {
		contribution = contribution.Mul(decimal.NewFromInt(2))
	}

	deduction := contribution.Mul(scheme.CoveragePercent).Div(decimal.NewFromInt(100))

	// The insurer never pays more than the sale is worth
	if deduction.GreaterThan(input.TaxableAmount.Amount()) {
		deduction = input.TaxableAmount.Amount()
	}

	return pricing.Assessment{
		Eligible:       true,
		Deduction:      valueobject.NewMoneyTRY(deduction),
		InsurerPayment: valueobject.NewMoneyTRY(deduction),
	}, nil
}

// StaticSchemeProvider serves schemes from an in-memory table. Used for the
// built-in defaults and in tests.
type StaticSchemeProvider struct {
	schemes map[string]Scheme
}

// NewStaticSchemeProvider creates a provider from a fixed scheme list
func NewStaticSchemeProvider(schemes []Scheme) *StaticSchemeProvider {
	m := make(map[string]Scheme, len(schemes))
	for _, s := range schemes {
		m[s.ID] = s
	}
	return &StaticSchemeProvider{schemes: m}
}

// GetScheme implements SchemeProvider; tenant-agnostic for static tables
func (p *StaticSchemeProvider) GetScheme(_ context.Context, _ string, schemeID string) (*Scheme, error) {
	scheme, ok := p.schemes[schemeID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &scheme, nil
}
