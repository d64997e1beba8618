package insurance

import (
	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/shared"
)

// Well-known SGK scheme identifiers. Tenants may define additional schemes;
// these ship as defaults mirroring the national contribution rules.
const (
	SchemeSGKActive  = "sgk-active"  // actively insured (working)
	SchemeSGKRetired = "sgk-retired" // retired insured
	SchemeSGKChild   = "sgk-child"   // under-18 dependents
)

// CoverageBand maps an age range to the fixed per-device SGK contribution.
// MaxAge zero means unbounded.
type CoverageBand struct {
	MinAge       int             `json:"min_age"`
	MaxAge       int             `json:"max_age"`
	Contribution decimal.Decimal `json:"contribution"`
}

// Matches reports whether the band covers the given age
func (b CoverageBand) Matches(age int) bool {
	if age < b.MinAge {
		return false
	}
	return b.MaxAge == 0 || age <= b.MaxAge
}

// Scheme defines how an insurance scheme contributes to a hearing-aid sale.
// The deduction is the banded per-device contribution, doubled for bilateral
// fittings, scaled by the coverage percentage and capped at the taxable
// amount of the sale.
type Scheme struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Bands           []CoverageBand  `json:"bands"`
	CoveragePercent decimal.Decimal `json:"coverage_percent"` // whole number, 90 means 90%
	BilateralDouble bool            `json:"bilateral_double"` // second ear contributes a second device share
}

// Validate checks scheme consistency
func (s *Scheme) Validate() error {
	if s.ID == "" {
		return shared.NewDomainError("INVALID_SCHEME", "Scheme ID cannot be empty")
	}
	if len(s.Bands) == 0 {
		return shared.NewDomainError("INVALID_SCHEME", "Scheme must define at least one coverage band")
	}
	if s.CoveragePercent.IsNegative() || s.CoveragePercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_SCHEME", "Coverage percent must be between 0 and 100")
	}
	for _, band := range s.Bands {
		if band.MinAge < 0 || (band.MaxAge != 0 && band.MaxAge < band.MinAge) {
			return shared.NewDomainError("INVALID_SCHEME", "Coverage band age range is invalid")
		}
		if band.Contribution.IsNegative() {
			return shared.NewDomainError("INVALID_SCHEME", "Coverage band contribution cannot be negative")
		}
	}
	return nil
}

// BandFor returns the first band covering the given age, nil when none match
func (s *Scheme) BandFor(age int) *CoverageBand {
	for idx := range s.Bands {
		if s.Bands[idx].Matches(age) {
			return &s.Bands[idx]
		}
	}
	return nil
}

// DefaultSchemes returns the built-in SGK contribution tables. Amounts follow
// the published institution ceilings and are overridable per tenant.
func DefaultSchemes() []Scheme {
	return []Scheme{
		{
			ID:   SchemeSGKActive,
			Name: "SGK Çalışan",
			Bands: []CoverageBand{
				{MinAge: 18, MaxAge: 0, Contribution: decimal.NewFromInt(3600)},
			},
			CoveragePercent: decimal.NewFromInt(80),
			BilateralDouble: true,
		},
		{
			ID:   SchemeSGKRetired,
			Name: "SGK Emekli",
			Bands: []CoverageBand{
				{MinAge: 18, MaxAge: 0, Contribution: decimal.NewFromInt(3600)},
			},
			CoveragePercent: decimal.NewFromInt(90),
			BilateralDouble: true,
		},
		{
			ID:   SchemeSGKChild,
			Name: "SGK 18 Yaş Altı",
			Bands: []CoverageBand{
				{MinAge: 0, MaxAge: 17, Contribution: decimal.NewFromInt(4320)},
			},
			CoveragePercent: decimal.NewFromInt(100),
			BilateralDouble: true,
		},
	}
}
