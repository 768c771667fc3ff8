package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caixa/internal/core/types"
)

func TestPaymentLedger_AddPayment(t *testing.T) {
	ledger := NewPaymentLedger()

	err := ledger.AddPayment(MethodCash, types.MustMoney("17.80"))
	require.NoError(t, err)

	payments := ledger.Payments()
	require.Len(t, payments, 1)
	assert.True(t, payments[0].FeeAmount.IsZero(), "cash carries no fee")
	assert.True(t, ledger.TotalPaid().Equal(types.MustMoney("17.80")))
}

func TestPaymentLedger_RejectsNonPositiveAmount(t *testing.T) {
	ledger := NewPaymentLedger()

	assert.Error(t, ledger.AddPayment(MethodCash, types.Zero()))
	assert.Error(t, ledger.AddPayment(MethodCash, types.MustMoney("-5.00")))
	assert.Empty(t, ledger.Payments())
}

func TestPaymentLedger_RejectsUnknownMethod(t *testing.T) {
	ledger := NewPaymentLedger()
	assert.Error(t, ledger.AddPayment(PaymentMethod("barter"), types.MustMoney("10.00")))
}

func TestPaymentLedger_FeeTable(t *testing.T) {
	cases := []struct {
		method PaymentMethod
		amount string
		fee    string
	}{
		{MethodCash, "100.00", "0"},
		{MethodTransfer, "100.00", "1.00"},
		{MethodDebit, "100.00", "2.00"},
		{MethodCredit, "100.00", "3.00"},
	}

	for _, tc := range cases {
		ledger := NewPaymentLedger()
		require.NoError(t, ledger.AddPayment(tc.method, types.MustMoney(tc.amount)))
		assert.True(t, ledger.TotalFees().Equal(types.MustMoney(tc.fee)),
			"method %s: expected fee %s, got %s", tc.method, tc.fee, ledger.TotalFees())
	}
}

func TestPaymentLedger_FeeRoundsToCurrencyPrecision(t *testing.T) {
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.AddPayment(MethodTransfer, types.MustMoney("45.45")))

	// 45.45 * 1% = 0.4545, rounded to 0.45
	assert.True(t, ledger.TotalFees().Equal(types.MustMoney("0.45")))
}

func TestPaymentLedger_TotalsRecomputedAfterMutation(t *testing.T) {
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.AddPayment(MethodCash, types.MustMoney("10.00")))
	require.NoError(t, ledger.AddPayment(MethodDebit, types.MustMoney("20.00")))
	require.NoError(t, ledger.AddPayment(MethodCash, types.MustMoney("5.00")))

	assert.True(t, ledger.TotalPaid().Equal(types.MustMoney("35.00")))

	ledger.RemovePayment(1) // drop the debit payment
	assert.True(t, ledger.TotalPaid().Equal(types.MustMoney("15.00")))
	assert.True(t, ledger.TotalFees().IsZero())

	// Out-of-range removals are no-ops
	ledger.RemovePayment(-1)
	ledger.RemovePayment(99)
	assert.Len(t, ledger.Payments(), 2)
}

func TestPaymentLedger_RemainingDue(t *testing.T) {
	ledger := NewPaymentLedger()
	saleTotal := types.MustMoney("100.00")

	// Credit payment of 100.00 carries a 3.00 fee: 3.00 short of the
	// total plus fees even though it covers the bare total.
	require.NoError(t, ledger.AddPayment(MethodCredit, types.MustMoney("100.00")))
	assert.True(t, ledger.TotalFees().Equal(types.MustMoney("3.00")))

	due := ledger.RemainingDue(saleTotal)
	assert.True(t, due.Equal(types.MustMoney("3.00")), "expected 3.00 due, got %s", due)

	// Topping up the fee settles the sale exactly.
	require.NoError(t, ledger.AddPayment(MethodCash, types.MustMoney("3.00")))
	assert.True(t, ledger.RemainingDue(saleTotal).IsZero())
}
