package sales

import (
	"github.com/shopspring/decimal"

	"caixa/internal/core/apperror"
	"caixa/internal/core/types"
)

// PaymentMethod identifies how a payment was tendered.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCredit   PaymentMethod = "card-credit"
	MethodDebit    PaymentMethod = "card-debit"
	MethodTransfer PaymentMethod = "instant-transfer"
)

// feeRates is the fixed, method-indexed fee table. Rates are configuration
// constants, not computed.
var feeRates = map[PaymentMethod]decimal.Decimal{
	MethodCash:     decimal.Zero,
	MethodTransfer: decimal.NewFromFloat(0.01),
	MethodDebit:    decimal.NewFromFloat(0.02),
	MethodCredit:   decimal.NewFromFloat(0.03),
}

// FeeRate returns the fee rate for a method (zero for unknown methods).
func FeeRate(method PaymentMethod) decimal.Decimal {
	return feeRates[method]
}

// IsValidMethod reports whether the method is known.
func IsValidMethod(method PaymentMethod) bool {
	_, ok := feeRates[method]
	return ok
}

// Payment is one tender applied to the active sale. FeeAmount is derived
// from the fixed fee table at add time and rounded to currency precision.
type Payment struct {
	Method    PaymentMethod `json:"method"`
	Amount    types.Money   `json:"amount"`
	FeeAmount types.Money   `json:"feeAmount"`
}

// PaymentLedger holds the payments tendered toward the current sale. The
// set is mutable until the sale commits. Not safe for concurrent use.
type PaymentLedger struct {
	payments []Payment
}

// NewPaymentLedger creates an empty payment ledger.
func NewPaymentLedger() *PaymentLedger {
	return &PaymentLedger{payments: make([]Payment, 0)}
}

// AddPayment appends a payment with the fee computed from the method's
// fixed rate. Rejects non-positive amounts and unknown methods.
func (l *PaymentLedger) AddPayment(method PaymentMethod, amount types.Money) error {
	if !IsValidMethod(method) {
		return apperror.NewValidation("unknown payment method").
			WithDetail("method", string(method))
	}
	if !amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("amount", amount.String())
	}

	l.payments = append(l.payments, Payment{
		Method:    method,
		Amount:    amount,
		FeeAmount: computeFee(method, amount),
	})
	return nil
}

// RemovePayment removes by position. No-op if out of range.
func (l *PaymentLedger) RemovePayment(index int) {
	if index < 0 || index >= len(l.payments) {
		return
	}
	l.payments = append(l.payments[:index], l.payments[index+1:]...)
}

// Clear removes all payments.
func (l *PaymentLedger) Clear() {
	l.payments = l.payments[:0]
}

// Payments returns a copy of the current payments in tender order.
func (l *PaymentLedger) Payments() []Payment {
	out := make([]Payment, len(l.payments))
	copy(out, l.payments)
	return out
}

// TotalPaid returns the sum of payment amounts.
func (l *PaymentLedger) TotalPaid() types.Money {
	total := types.Zero()
	for _, p := range l.payments {
		total = total.Add(p.Amount)
	}
	return total
}

// TotalFees returns the sum of payment fee amounts.
func (l *PaymentLedger) TotalFees() types.Money {
	total := types.Zero()
	for _, p := range l.payments {
		total = total.Add(p.FeeAmount)
	}
	return total
}

// RemainingDue returns saleTotal + totalFees - totalPaid. Positive means
// underpayment; zero or negative means fully paid (negative = change owed).
func (l *PaymentLedger) RemainingDue(saleTotal types.Money) types.Money {
	return saleTotal.Add(l.TotalFees()).Sub(l.TotalPaid())
}

// computeFee derives the fee for a payment, rounded to currency precision.
func computeFee(method PaymentMethod, amount types.Money) types.Money {
	return amount.Mul(feeRates[method]).Round(2)
}
