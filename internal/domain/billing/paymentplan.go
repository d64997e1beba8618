package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xear/backend/internal/domain/shared"
	"github.com/xear/backend/internal/domain/shared/valueobject"
)

// InstallmentStatus represents one installment's payment state
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
)

// Installment is one scheduled partial payment
type Installment struct {
	Sequence int               `json:"sequence"`
	Amount   valueobject.Money `json:"amount"`
	DueAt    time.Time         `json:"due_at"`
	Status   InstallmentStatus `json:"status"`
	PaidAt   *time.Time        `json:"paid_at,omitempty"`
}

// PaymentPlan splits an invoice's patient share into monthly installments.
// Allocation is kuruş-exact: the installment amounts always sum to the
// planned total, with remainder kuruş going to the earliest installments.
type PaymentPlan struct {
	shared.TenantAggregateRoot
	InvoiceID    uuid.UUID
	Total        valueobject.Money
	Installments []Installment
}

// NewPaymentPlan splits total into count monthly installments starting at firstDueAt
func NewPaymentPlan(tenantID, invoiceID uuid.UUID, total valueobject.Money, count int, firstDueAt time.Time) (*PaymentPlan, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Plan total must be positive")
	}
	if count < 2 {
		return nil, shared.NewDomainError("INVALID_COUNT", "A payment plan needs at least two installments")
	}
	if firstDueAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "First due date is required")
	}

	amounts, err := total.Allocate(count)
	if err != nil {
		return nil, err
	}

	installments := make([]Installment, count)
	for idx, amount := range amounts {
		installments[idx] = Installment{
			Sequence: idx + 1,
			Amount:   amount,
			DueAt:    firstDueAt.AddDate(0, idx, 0),
			Status:   InstallmentStatusPending,
		}
	}

	return &PaymentPlan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceID:           invoiceID,
		Total:               total,
		Installments:        installments,
	}, nil
}

// PayInstallment settles one installment by sequence number
func (p *PaymentPlan) PayInstallment(sequence int, at time.Time) error {
	idx := sequence - 1
	if idx < 0 || idx >= len(p.Installments) {
		return shared.NewDomainError("INVALID_SEQUENCE", fmt.Sprintf("No installment with sequence %d", sequence))
	}
	inst := &p.Installments[idx]
	if inst.Status == InstallmentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", fmt.Sprintf("Installment %d is already paid", sequence))
	}
	if at.IsZero() {
		at = time.Now()
	}
	inst.Status = InstallmentStatusPaid
	inst.PaidAt = &at
	p.Touch()
	return nil
}

// PaidAmount sums the settled installments
func (p *PaymentPlan) PaidAmount() valueobject.Money {
	sum := valueobject.ZeroTRY()
	for _, inst := range p.Installments {
		if inst.Status == InstallmentStatusPaid {
			sum = sum.MustAdd(inst.Amount)
		}
	}
	return sum
}

// Outstanding returns the unpaid remainder
func (p *PaymentPlan) Outstanding() valueobject.Money {
	return p.Total.MustSubtract(p.PaidAmount())
}

// IsSettled reports whether every installment is paid
func (p *PaymentPlan) IsSettled() bool {
	for _, inst := range p.Installments {
		if inst.Status != InstallmentStatusPaid {
			return false
		}
	}
	return true
}

// NextDue returns the earliest unpaid installment
func (p *PaymentPlan) NextDue() (Installment, bool) {
	for _, inst := range p.Installments {
		if inst.Status == InstallmentStatusPending {
			return inst, true
		}
	}
	return Installment{}, false
}

// OverdueInstallments returns unpaid installments past their due date
func (p *PaymentPlan) OverdueInstallments(now time.Time) []Installment {
	var overdue []Installment
	for _, inst := range p.Installments {
		if inst.Status == InstallmentStatusPending && now.After(inst.DueAt) {
			overdue = append(overdue, inst)
		}
	}
	return overdue
}
