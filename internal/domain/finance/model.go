// Package finance provides simple accounts payable and receivable: bills
// the store owes and amounts customers owe the store.
package finance

import (
	"context"
	"time"

	"caixa/internal/core/apperror"
	"caixa/internal/core/entity"
	"caixa/internal/core/id"
	"caixa/internal/core/types"
)

// BillType separates money owed from money due.
type BillType string

const (
	TypePayable    BillType = "payable"
	TypeReceivable BillType = "receivable"
)

// BillStatus is the settlement state of a bill.
type BillStatus string

const (
	StatusOpen      BillStatus = "open"
	StatusPartially BillStatus = "partial"
	StatusPaid      BillStatus = "paid"
	StatusVoided    BillStatus = "voided"
)

// Bill is one payable or receivable obligation.
type Bill struct {
	entity.Document

	Type   BillType   `db:"type" json:"type"`
	Status BillStatus `db:"status" json:"status"`

	// Description names the obligation ("electricity", "supplier invoice")
	Description string `db:"description" json:"description"`

	// CustomerID links receivables to a known customer
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	Amount     types.Money `db:"amount" json:"amount"`
	PaidAmount types.Money `db:"paid_amount" json:"paidAmount"`

	DueDate time.Time `db:"due_date" json:"dueDate"`
}

// NewBill creates an open bill.
func NewBill(billType BillType, description string, amount types.Money, dueDate time.Time) *Bill {
	return &Bill{
		Document:    entity.NewDocument(),
		Type:        billType,
		Status:      StatusOpen,
		Description: description,
		Amount:      amount,
		PaidAmount:  types.Zero(),
		DueDate:     dueDate,
	}
}

// Validate implements entity.Validatable.
func (b *Bill) Validate(ctx context.Context) error {
	if err := b.Document.Validate(ctx); err != nil {
		return err
	}

	if b.Type != TypePayable && b.Type != TypeReceivable {
		return apperror.NewValidation("invalid bill type").
			WithDetail("field", "type").
			WithDetail("value", string(b.Type))
	}

	if b.Description == "" {
		return apperror.NewValidation("description is required").
			WithDetail("field", "description")
	}

	if !b.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}

	if b.PaidAmount.IsNegative() {
		return apperror.NewValidation("paid amount cannot be negative").
			WithDetail("field", "paidAmount")
	}

	if b.PaidAmount.GreaterThan(b.Amount) {
		return apperror.NewValidation("paid amount cannot exceed bill amount").
			WithDetail("field", "paidAmount")
	}

	if b.DueDate.IsZero() {
		return apperror.NewValidation("due date is required").
			WithDetail("field", "dueDate")
	}

	return nil
}

// Remaining returns the unpaid portion.
func (b *Bill) Remaining() types.Money {
	return b.Amount.Sub(b.PaidAmount)
}

// IsOverdue reports whether an unsettled bill is past its due date.
func (b *Bill) IsOverdue(now time.Time) bool {
	return b.Status != StatusPaid && b.Status != StatusVoided && now.After(b.DueDate)
}

// ApplyPayment records a payment and advances the status.
func (b *Bill) ApplyPayment(amount types.Money) error {
	if b.Status == StatusPaid || b.Status == StatusVoided {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "bill is already settled").
			WithDetail("status", string(b.Status))
	}
	if !amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}
	if amount.GreaterThan(b.Remaining()) {
		return apperror.NewValidation("payment exceeds remaining amount").
			WithDetail("remaining", b.Remaining().String())
	}

	b.PaidAmount = b.PaidAmount.Add(amount)
	if b.PaidAmount.Equal(b.Amount) {
		b.Status = StatusPaid
	} else {
		b.Status = StatusPartially
	}
	return nil
}
