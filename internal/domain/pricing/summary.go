package pricing

import (
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// QuoteSummary carries display-ready aggregates derived from a computed quote
type QuoteSummary struct {
	ItemCount      int
	TotalQuantity  int
	HasDiscount    bool
	HasInsurance   bool
	TotalSavings   valueobject.Money // discounts + insurer share
	Subtotal       string
	DiscountTotal  string
	TaxAmount      string
	GrandTotal     string
	InsurerPayment string
	PatientPayment string
}

// Summary derives display aggregates from the quote's current derived state.
// Amount strings are formatted as Turkish lira for the UI.
func (q *SaleQuote) Summary() QuoteSummary {
	savings := valueobject.NewMoneyTRY(q.DiscountTotal.Add(q.InsurerPayment))

	return QuoteSummary{
		ItemCount:      q.ItemCount(),
		TotalQuantity:  q.TotalQuantity(),
		HasDiscount:    q.DiscountTotal.IsPositive(),
		HasInsurance:   q.SGKEligible,
		TotalSavings:   savings,
		Subtotal:       valueobject.FormatTRY(valueobject.NewMoneyTRY(q.Subtotal)),
		DiscountTotal:  valueobject.FormatTRY(valueobject.NewMoneyTRY(q.DiscountTotal)),
		TaxAmount:      valueobject.FormatTRY(valueobject.NewMoneyTRY(q.TaxAmount)),
		GrandTotal:     valueobject.FormatTRY(valueobject.NewMoneyTRY(q.GrandTotal)),
		InsurerPayment: valueobject.FormatTRY(valueobject.NewMoneyTRY(q.InsurerPayment)),
		PatientPayment: valueobject.FormatTRY(valueobject.NewMoneyTRY(q.PatientPayment)),
	}
}
