package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// QuoteStatus represents the lifecycle state of a sale quote
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "DRAFT"
	QuoteStatusFinalized QuoteStatus = "FINALIZED" // converted to an invoice
	QuoteStatusCancelled QuoteStatus = "CANCELLED"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusFinalized, QuoteStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusFinalized || target == QuoteStatusCancelled
	case QuoteStatusFinalized, QuoteStatusCancelled:
		return false
	}
	return false
}

// Options holds the quote-level pricing inputs
type Options struct {
	VATRate            decimal.Decimal // fraction, 0.08 means 8%
	SchemeID           string          // SGK scheme identifier, empty = no insurance
	PatientAge         *int
	Bilateral          bool
	GlobalDiscount     decimal.Decimal
	GlobalDiscountType DiscountType
}

// OptionsPatch carries partial option updates. Nil fields are left untouched
// (shallow merge semantics).
type OptionsPatch struct {
	VATRate            *decimal.Decimal
	SchemeID           *string
	PatientAge         *int
	Bilateral          *bool
	GlobalDiscount     *decimal.Decimal
	GlobalDiscountType *DiscountType
}

// Breakdown is the fully derived pricing result for a quote
type Breakdown struct {
	Subtotal       valueobject.Money // after item discounts, before global discount
	GlobalDiscount valueobject.Money
	DiscountTotal  valueobject.Money // item-level + global, one aggregate figure
	TaxableAmount  valueobject.Money
	TaxAmount      valueobject.Money
	SGKEligible    bool
	SGKDeduction   valueobject.Money
	InsurerPayment valueobject.Money
	GrandTotal     valueobject.Money
	PatientPayment valueobject.Money
}

// SaleQuote is the aggregate root for a pending hearing-aid sale. Totals are
// re-derived on every mutation; insurance amounts are filled in by Compute,
// which consults the scheme evaluator.
type SaleQuote struct {
	shared.TenantAggregateRoot
	QuoteNumber string
	PatientID   uuid.UUID
	PatientName string
	Items       []QuoteItem
	Opts        Options
	Status      QuoteStatus
	Notes       string

	// Derived amounts, maintained by recalculate/Compute
	Subtotal       decimal.Decimal
	GlobalDiscount decimal.Decimal
	DiscountTotal  decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	SGKEligible    bool
	SGKDeduction   decimal.Decimal
	InsurerPayment decimal.Decimal
	GrandTotal     decimal.Decimal
	PatientPayment decimal.Decimal

	FinalizedAt *time.Time
	CancelledAt *time.Time
}

// NewSaleQuote creates a new draft quote for a patient
func NewSaleQuote(tenantID uuid.UUID, quoteNumber string, patientID uuid.UUID, patientName string) (*SaleQuote, error) {
	if quoteNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTE_NUMBER", "Quote number cannot be empty")
	}
	if patientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient ID cannot be empty")
	}
	if patientName == "" {
		return nil, shared.NewDomainError("INVALID_PATIENT_NAME", "Patient name cannot be empty")
	}

	quote := &SaleQuote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		QuoteNumber:         quoteNumber,
		PatientID:           patientID,
		PatientName:         patientName,
		Items:               make([]QuoteItem, 0),
		Status:              QuoteStatusDraft,
	}
	quote.recalculate()

	quote.AddDomainEvent(NewQuoteCreatedEvent(quote))

	return quote, nil
}

// AddItem appends a new line item. The sale price defaults to the list price
// when no override is given.
func (q *SaleQuote) AddItem(name string, listPrice valueobject.Money, salePrice *valueobject.Money, quantity int) (*QuoteItem, error) {
	if q.Status != QuoteStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft quote")
	}

	item, err := NewQuoteItem(q.ID, name, listPrice, salePrice, quantity)
	if err != nil {
		return nil, err
	}

	q.Items = append(q.Items, *item)
	q.recalculate()
	q.Touch()

	return &q.Items[len(q.Items)-1], nil
}

// ItemUpdate carries partial line-item updates. Nil fields are left untouched.
type ItemUpdate struct {
	SalePrice    *valueobject.Money
	Quantity     *int
	Discount     *decimal.Decimal
	DiscountType *DiscountType
	EarSide      *EarSide
}

// UpdateItem applies a partial update to the item with the given ID.
// Updating an absent item is a silent no-op.
func (q *SaleQuote) UpdateItem(itemID uuid.UUID, update ItemUpdate) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items on a non-draft quote")
	}

	idx := q.itemIndex(itemID)
	if idx < 0 {
		return nil
	}
	item := &q.Items[idx]

	if update.SalePrice != nil {
		if update.SalePrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
		}
		item.SalePrice = update.SalePrice.Amount()
	}
	if update.Quantity != nil {
		if *update.Quantity <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		item.Quantity = *update.Quantity
	}
	if update.Discount != nil {
		discountType := item.DiscountType
		if update.DiscountType != nil {
			discountType = *update.DiscountType
		}
		if err := item.SetDiscount(*update.Discount, discountType); err != nil {
			return err
		}
	}
	if update.EarSide != nil {
		if err := item.SetEarSide(*update.EarSide); err != nil {
			return err
		}
	}
	item.UpdatedAt = time.Now()

	q.recalculate()
	q.Touch()
	return nil
}

// RemoveItem deletes the item with the given ID.
// Removing an absent item is a silent no-op.
func (q *SaleQuote) RemoveItem(itemID uuid.UUID) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft quote")
	}

	idx := q.itemIndex(itemID)
	if idx < 0 {
		return nil
	}
	q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
	q.recalculate()
	q.Touch()
	return nil
}

// UpdateOptions shallow-merges the patch into the current options
func (q *SaleQuote) UpdateOptions(patch OptionsPatch) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update options on a non-draft quote")
	}

	if patch.VATRate != nil {
		if patch.VATRate.IsNegative() {
			return shared.NewDomainError("INVALID_VAT_RATE", "VAT rate cannot be negative")
		}
		q.Opts.VATRate = *patch.VATRate
	}
	if patch.SchemeID != nil {
		q.Opts.SchemeID = *patch.SchemeID
	}
	if patch.PatientAge != nil {
		if *patch.PatientAge < 0 {
			return shared.NewDomainError("INVALID_AGE", "Patient age cannot be negative")
		}
		age := *patch.PatientAge
		q.Opts.PatientAge = &age
	}
	if patch.Bilateral != nil {
		q.Opts.Bilateral = *patch.Bilateral
	}
	if patch.GlobalDiscount != nil {
		if patch.GlobalDiscount.IsNegative() {
			return shared.NewDomainError("INVALID_DISCOUNT", "Global discount cannot be negative")
		}
		q.Opts.GlobalDiscount = *patch.GlobalDiscount
	}
	if patch.GlobalDiscountType != nil {
		if !patch.GlobalDiscountType.IsValid() {
			return shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be percentage or fixed")
		}
		q.Opts.GlobalDiscountType = *patch.GlobalDiscountType
	}

	q.recalculate()
	q.Touch()
	return nil
}

// SetNotes sets free-form notes on the quote
func (q *SaleQuote) SetNotes(notes string) {
	q.Notes = notes
	q.Touch()
}

// BilateralEligible reports whether the quote covers both ears: the explicit
// option is set, an item is tagged "both", or the item set contains at least
// one "left" and one "right" tagged item.
func (q *SaleQuote) BilateralEligible() bool {
	if q.Opts.Bilateral {
		return true
	}
	var left, right bool
	for _, item := range q.Items {
		switch item.EarSide {
		case EarSideBoth:
			return true
		case EarSideLeft:
			left = true
		case EarSideRight:
			right = true
		}
	}
	return left && right
}

// recalculate re-derives every amount that does not require the insurance
// evaluator. Runs after every mutation.
func (q *SaleQuote) recalculate() {
	subtotal := decimal.Zero
	itemDiscounts := decimal.Zero
	for idx := range q.Items {
		subtotal = subtotal.Add(q.Items[idx].NetTotal())
		itemDiscounts = itemDiscounts.Add(q.Items[idx].DiscountAmount())
	}

	global := decimal.Zero
	if q.Opts.GlobalDiscount.IsPositive() {
		switch q.Opts.GlobalDiscountType {
		case DiscountPercentage:
			global = subtotal.Mul(q.Opts.GlobalDiscount).Div(decimal.NewFromInt(100))
		case DiscountFixed:
			global = q.Opts.GlobalDiscount
			if global.GreaterThan(subtotal) {
				global = subtotal
			}
		}
	}

	taxable := subtotal.Sub(global)
	tax := taxable.Mul(q.Opts.VATRate)

	q.Subtotal = subtotal
	q.GlobalDiscount = global
	q.DiscountTotal = global.Add(itemDiscounts)
	q.TaxableAmount = taxable
	q.TaxAmount = tax
	q.GrandTotal = taxable.Add(tax)

	// Insurance amounts survive from the last Compute until it runs again;
	// patient payment is kept consistent with the new grand total.
	q.PatientPayment = q.GrandTotal.Sub(q.InsurerPayment)
	if q.PatientPayment.IsNegative() {
		q.PatientPayment = decimal.Zero
	}
}

// Compute derives the full breakdown including the insurer's share. The
// insurance check fires only when both a scheme ID and a patient age are
// present; otherwise the quote is priced without insurance. Evaluator errors
// are returned to the caller (wrap the evaluator with FailClosed to restore
// the legacy failure-is-ineligible behavior).
func (q *SaleQuote) Compute(ctx context.Context, evaluator SchemeEvaluator) (Breakdown, error) {
	q.recalculate()

	q.SGKEligible = false
	q.SGKDeduction = decimal.Zero
	q.InsurerPayment = decimal.Zero

	if q.Opts.SchemeID != "" && q.Opts.PatientAge != nil && evaluator != nil {
		assessment, err := evaluator.Evaluate(ctx, AssessmentInput{
			SchemeID:      q.Opts.SchemeID,
			PatientAge:    *q.Opts.PatientAge,
			TaxableAmount: valueobject.NewMoneyTRY(q.TaxableAmount),
			Bilateral:     q.BilateralEligible(),
		})
		if err != nil {
			return Breakdown{}, fmt.Errorf("scheme evaluation failed: %w", err)
		}
		if assessment.Eligible {
			q.SGKEligible = true
			q.SGKDeduction = assessment.Deduction.Amount()
			q.InsurerPayment = assessment.InsurerPayment.Amount()
		}
	}

	q.PatientPayment = q.GrandTotal.Sub(q.InsurerPayment)
	if q.PatientPayment.IsNegative() {
		q.PatientPayment = decimal.Zero
	}

	return q.breakdown(), nil
}

// breakdown snapshots the derived amounts as Money values
func (q *SaleQuote) breakdown() Breakdown {
	return Breakdown{
		Subtotal:       valueobject.NewMoneyTRY(q.Subtotal),
		GlobalDiscount: valueobject.NewMoneyTRY(q.GlobalDiscount),
		DiscountTotal:  valueobject.NewMoneyTRY(q.DiscountTotal),
		TaxableAmount:  valueobject.NewMoneyTRY(q.TaxableAmount),
		TaxAmount:      valueobject.NewMoneyTRY(q.TaxAmount),
		SGKEligible:    q.SGKEligible,
		SGKDeduction:   valueobject.NewMoneyTRY(q.SGKDeduction),
		InsurerPayment: valueobject.NewMoneyTRY(q.InsurerPayment),
		GrandTotal:     valueobject.NewMoneyTRY(q.GrandTotal),
		PatientPayment: valueobject.NewMoneyTRY(q.PatientPayment),
	}
}

// Finalize marks the quote as converted to an invoice
func (q *SaleQuote) Finalize() error {
	if !q.Status.CanTransitionTo(QuoteStatusFinalized) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot finalize quote in %s status", q.Status))
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot finalize a quote without items")
	}

	now := time.Now()
	q.Status = QuoteStatusFinalized
	q.FinalizedAt = &now
	q.Touch()

	q.AddDomainEvent(NewQuoteFinalizedEvent(q))

	return nil
}

// Cancel cancels the quote
func (q *SaleQuote) Cancel() error {
	if !q.Status.CanTransitionTo(QuoteStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel quote in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuoteStatusCancelled
	q.CancelledAt = &now
	q.Touch()

	return nil
}

// GetItem returns an item by its ID, nil when absent
func (q *SaleQuote) GetItem(itemID uuid.UUID) *QuoteItem {
	idx := q.itemIndex(itemID)
	if idx < 0 {
		return nil
	}
	return &q.Items[idx]
}

// ItemCount returns the number of line items
func (q *SaleQuote) ItemCount() int {
	return len(q.Items)
}

// TotalQuantity returns the sum of all item quantities
func (q *SaleQuote) TotalQuantity() int {
	total := 0
	for _, item := range q.Items {
		total += item.Quantity
	}
	return total
}

// IsDraft returns true if the quote can still be modified
func (q *SaleQuote) IsDraft() bool {
	return q.Status == QuoteStatusDraft
}

func (q *SaleQuote) itemIndex(itemID uuid.UUID) int {
	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			return idx
		}
	}
	return -1
}
