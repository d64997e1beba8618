package insurance

import (
	"context"

	"github.com/google/uuid"

	"github.com/xear/backend/internal/domain/insurance"
	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/infrastructure/logger"
)

// schemeProviderFunc adapts a lookup function to insurance.SchemeProvider
type schemeProviderFunc func(ctx context.Context, tenantID, schemeID string) (*insurance.Scheme, error)

func (f schemeProviderFunc) GetScheme(ctx context.Context, tenantID, schemeID string) (*insurance.Scheme, error) {
	return f(ctx, tenantID, schemeID)
}

// ContextEvaluator evaluates SGK coverage for quotes using the scheme tables
// of the tenant carried in the request context. A context without a tenant
// yields a not-eligible assessment rather than an error, so quote computation
// degrades to full patient responsibility instead of failing.
type ContextEvaluator struct {
	schemeService *SchemeService
}

// NewContextEvaluator creates a coverage evaluator backed by the scheme service
func NewContextEvaluator(schemeService *SchemeService) *ContextEvaluator {
	return &ContextEvaluator{schemeService: schemeService}
}

// Evaluate implements pricing.SchemeEvaluator
func (e *ContextEvaluator) Evaluate(ctx context.Context, input pricing.AssessmentInput) (pricing.Assessment, error) {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == "" {
		return pricing.NotEligible(), nil
	}

	provider := schemeProviderFunc(func(ctx context.Context, tenantID, schemeID string) (*insurance.Scheme, error) {
		tid, err := uuid.Parse(tenantID)
		if err != nil {
			return nil, err
		}
		scheme, err := e.schemeService.GetScheme(ctx, tid, schemeID)
		if err != nil {
			return nil, err
		}
		if scheme == nil {
			return nil, shared.ErrNotFound
		}
		return scheme, nil
	})

	return insurance.NewTableEvaluator(provider, tenantID).Evaluate(ctx, input)
}
