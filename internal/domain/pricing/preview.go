package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// PreviewInput describes a hypothetical line item for what-if feedback
// before it is committed to a quote.
type PreviewInput struct {
	ListPrice    valueobject.Money
	SalePrice    *valueobject.Money
	Quantity     int
	Discount     decimal.Decimal
	DiscountType DiscountType
	VATRate      decimal.Decimal
}

// PreviewResult is a standalone total/discount/tax breakdown
type PreviewResult struct {
	GrossTotal     valueobject.Money
	DiscountAmount valueobject.Money
	NetTotal       valueobject.Money
	TaxAmount      valueobject.Money
	Total          valueobject.Money
}

// Preview computes a standalone breakdown for a hypothetical item without
// touching any quote state. Quantities below one are treated as one.
func Preview(input PreviewInput) PreviewResult {
	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	unit := input.ListPrice.Amount()
	if input.SalePrice != nil {
		unit = input.SalePrice.Amount()
	}
	gross := unit.Mul(decimal.NewFromInt(int64(quantity)))

	net := gross
	if input.Discount.IsPositive() {
		switch input.DiscountType {
		case DiscountPercentage:
			factor := decimal.NewFromInt(1).Sub(input.Discount.Div(decimal.NewFromInt(100)))
			net = gross.Mul(factor)
		case DiscountFixed:
			net = gross.Sub(input.Discount)
		}
		if net.IsNegative() {
			net = decimal.Zero
		}
	}

	tax := net.Mul(input.VATRate)

	return PreviewResult{
		GrossTotal:     valueobject.NewMoneyTRY(gross),
		DiscountAmount: valueobject.NewMoneyTRY(gross.Sub(net)),
		NetTotal:       valueobject.NewMoneyTRY(net),
		TaxAmount:      valueobject.NewMoneyTRY(tax),
		Total:          valueobject.NewMoneyTRY(net.Add(tax)),
	}
}
