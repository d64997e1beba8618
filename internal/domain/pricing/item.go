package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// DiscountType represents how a discount value is interpreted
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage" // whole number, 18 means 18%
	DiscountFixed      DiscountType = "fixed"      // absolute lira amount
)

// IsValid checks if the discount type is valid
func (d DiscountType) IsValid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

// EarSide tags a line item with the ear a device is fitted to
type EarSide string

const (
	EarSideNone  EarSide = ""
	EarSideLeft  EarSide = "left"
	EarSideRight EarSide = "right"
	EarSideBoth  EarSide = "both"
)

// IsValid checks if the ear side is valid (empty means untagged)
func (e EarSide) IsValid() bool {
	switch e {
	case EarSideNone, EarSideLeft, EarSideRight, EarSideBoth:
		return true
	}
	return false
}

// QuoteItem represents one priced product or service line within a sale quote
type QuoteItem struct {
	ID           uuid.UUID
	QuoteID      uuid.UUID
	DeviceID     *uuid.UUID // nil for non-catalog services
	Name         string
	ListPrice    decimal.Decimal
	SalePrice    decimal.Decimal // defaults to ListPrice when no override given
	Quantity     int
	Discount     decimal.Decimal
	DiscountType DiscountType
	EarSide      EarSide
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewQuoteItem creates a new quote line item.
// A zero salePrice means "no override": the list price is used.
func NewQuoteItem(quoteID uuid.UUID, name string, listPrice valueobject.Money, salePrice *valueobject.Money, quantity int) (*QuoteItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if listPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	sale := listPrice.Amount()
	if salePrice != nil {
		if salePrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
		}
		sale = salePrice.Amount()
	}

	now := time.Now()
	return &QuoteItem{
		ID:        uuid.New(),
		QuoteID:   quoteID,
		Name:      name,
		ListPrice: listPrice.Amount(),
		SalePrice: sale,
		Quantity:  quantity,
		Discount:  decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetDiscount sets the per-item discount
func (i *QuoteItem) SetDiscount(value decimal.Decimal, discountType DiscountType) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if !discountType.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be percentage or fixed")
	}
	if discountType == DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Percentage discount cannot exceed 100")
	}
	i.Discount = value
	i.DiscountType = discountType
	i.UpdatedAt = time.Now()
	return nil
}

// ClearDiscount removes the per-item discount
func (i *QuoteItem) ClearDiscount() {
	i.Discount = decimal.Zero
	i.DiscountType = ""
	i.UpdatedAt = time.Now()
}

// SetEarSide tags the item with an ear side
func (i *QuoteItem) SetEarSide(side EarSide) error {
	if !side.IsValid() {
		return shared.NewDomainError("INVALID_EAR_SIDE", "Ear side must be left, right or both")
	}
	i.EarSide = side
	i.UpdatedAt = time.Now()
	return nil
}

// GrossTotal returns SalePrice x Quantity before any discount
func (i *QuoteItem) GrossTotal() decimal.Decimal {
	return i.SalePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NetTotal returns the item total after the item-level discount.
// Percentage multiplies by (1 - pct/100); fixed subtracts, floored at zero.
func (i *QuoteItem) NetTotal() decimal.Decimal {
	gross := i.GrossTotal()
	if i.Discount.IsZero() {
		return gross
	}
	switch i.DiscountType {
	case DiscountPercentage:
		factor := decimal.NewFromInt(1).Sub(i.Discount.Div(decimal.NewFromInt(100)))
		return gross.Mul(factor)
	case DiscountFixed:
		net := gross.Sub(i.Discount)
		if net.IsNegative() {
			return decimal.Zero
		}
		return net
	default:
		return gross
	}
}

// DiscountAmount returns the lira value trimmed off this item by its own discount
func (i *QuoteItem) DiscountAmount() decimal.Decimal {
	return i.GrossTotal().Sub(i.NetTotal())
}
