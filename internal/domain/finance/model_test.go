package finance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caixa/internal/core/types"
)

func newTestBill(amount string) *Bill {
	return NewBill(TypePayable, "electricity", types.MustMoney(amount), time.Now().AddDate(0, 0, 7))
}

func TestBill_Validate(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, newTestBill("150.00").Validate(ctx))

	bill := newTestBill("150.00")
	bill.Description = ""
	assert.Error(t, bill.Validate(ctx))

	bill = newTestBill("0")
	assert.Error(t, bill.Validate(ctx))

	bill = newTestBill("150.00")
	bill.Type = BillType("loan")
	assert.Error(t, bill.Validate(ctx))
}

func TestBill_ApplyPayment(t *testing.T) {
	bill := newTestBill("150.00")

	require.NoError(t, bill.ApplyPayment(types.MustMoney("50.00")))
	assert.Equal(t, StatusPartially, bill.Status)
	assert.True(t, bill.Remaining().Equal(types.MustMoney("100.00")))

	require.NoError(t, bill.ApplyPayment(types.MustMoney("100.00")))
	assert.Equal(t, StatusPaid, bill.Status)
	assert.True(t, bill.Remaining().IsZero())

	// Settled bills reject further payments
	assert.Error(t, bill.ApplyPayment(types.MustMoney("1.00")))
}

func TestBill_ApplyPaymentRejectsInvalidAmounts(t *testing.T) {
	bill := newTestBill("150.00")

	assert.Error(t, bill.ApplyPayment(types.Zero()))
	assert.Error(t, bill.ApplyPayment(types.MustMoney("-10.00")))
	assert.Error(t, bill.ApplyPayment(types.MustMoney("150.01")), "overpayment rejected")
	assert.Equal(t, StatusOpen, bill.Status)
}

func TestBill_IsOverdue(t *testing.T) {
	bill := newTestBill("150.00")
	bill.DueDate = time.Now().AddDate(0, 0, -1)

	assert.True(t, bill.IsOverdue(time.Now()))

	require.NoError(t, bill.ApplyPayment(types.MustMoney("150.00")))
	assert.False(t, bill.IsOverdue(time.Now()), "paid bills are never overdue")
}
