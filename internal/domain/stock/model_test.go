package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caixa/internal/core/id"
	"caixa/internal/core/types"
)

func TestMovement_Validate(t *testing.T) {
	m := NewMovement(id.New(), TypeIn, types.NewQuantityFromInt64(5), ReasonPurchase)
	require.NoError(t, m.Validate(context.Background()))
}

func TestMovement_RejectsNonPositiveQuantity(t *testing.T) {
	m := NewMovement(id.New(), TypeIn, types.NewQuantityFromInt64(0), ReasonPurchase)
	assert.Error(t, m.Validate(context.Background()))

	m = NewMovement(id.New(), TypeIn, types.NewQuantityFromInt64(-1), ReasonPurchase)
	assert.Error(t, m.Validate(context.Background()))
}

func TestMovement_DirectionMustAgreeWithReason(t *testing.T) {
	cases := []struct {
		name   string
		mType  MovementType
		reason Reason
		valid  bool
	}{
		{"purchase must be inbound", TypeOut, ReasonPurchase, false},
		{"return must be inbound", TypeOut, ReasonReturn, false},
		{"sale must be outbound", TypeIn, ReasonSale, false},
		{"loss must be outbound", TypeIn, ReasonLoss, false},
		{"adjustment in", TypeIn, ReasonAdjustment, true},
		{"adjustment out", TypeOut, ReasonAdjustment, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMovement(id.New(), tc.mType, types.NewQuantityFromInt64(1), tc.reason)
			err := m.Validate(context.Background())
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMovement_RejectsUnknownReason(t *testing.T) {
	m := NewMovement(id.New(), TypeOut, types.NewQuantityFromInt64(1), Reason("shrinkage"))
	assert.Error(t, m.Validate(context.Background()))
}
