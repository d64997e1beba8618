package pricing

import (
	"context"

	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// AssessmentInput carries everything a scheme evaluator needs to decide
// the insurer's share of a priced quote.
type AssessmentInput struct {
	SchemeID      string
	PatientAge    int
	TaxableAmount valueobject.Money
	Bilateral     bool
}

// Assessment is the evaluator's verdict. A not-eligible assessment carries
// zero deduction and zero insurer payment.
type Assessment struct {
	Eligible       bool
	Deduction      valueobject.Money
	InsurerPayment valueobject.Money
}

// NotEligible returns an assessment with zero amounts
func NotEligible() Assessment {
	return Assessment{
		Eligible:       false,
		Deduction:      valueobject.ZeroTRY(),
		InsurerPayment: valueobject.ZeroTRY(),
	}
}

// SchemeEvaluator decides insurance coverage for a priced quote.
// Implementations must be idempotent and side-effect-free; callers handle
// the error branch explicitly instead of treating failures as ineligible.
type SchemeEvaluator interface {
	Evaluate(ctx context.Context, input AssessmentInput) (Assessment, error)
}

// EvaluatorFunc adapts a function to the SchemeEvaluator interface
type EvaluatorFunc func(ctx context.Context, input AssessmentInput) (Assessment, error)

// Evaluate implements SchemeEvaluator
func (f EvaluatorFunc) Evaluate(ctx context.Context, input AssessmentInput) (Assessment, error) {
	return f(ctx, input)
}

// FailClosed wraps an evaluator so that any evaluation failure is coalesced
// into a not-eligible assessment. This preserves the legacy behavior where a
// broken insurance lookup never blocked the arithmetic pipeline.
func FailClosed(inner SchemeEvaluator) SchemeEvaluator {
	return EvaluatorFunc(func(ctx context.Context, input AssessmentInput) (Assessment, error) {
		assessment, err := inner.Evaluate(ctx, input)
		if err != nil {
			return NotEligible(), nil
		}
		return assessment, nil
	})
}
