package promotion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caixa/internal/core/types"
)

func TestEngine_PercentDiscount(t *testing.T) {
	engine, err := NewEngine([]Rule{
		{
			Name:            "5% over 100 cash",
			Expression:      `total >= 100.0 && method == "cash"`,
			DiscountPercent: "5",
		},
	})
	require.NoError(t, err)

	discount, applied := engine.Evaluate(context.Background(), CartSummary{
		Total:     types.MustMoney("120.00"),
		ItemCount: 3,
		Method:    "cash",
	})

	require.NotNil(t, applied)
	assert.Equal(t, "5% over 100 cash", applied.Name)
	assert.True(t, discount.Equal(types.MustMoney("6.00")))
}

func TestEngine_NoMatch(t *testing.T) {
	engine, err := NewEngine([]Rule{
		{
			Name:            "5% over 100 cash",
			Expression:      `total >= 100.0 && method == "cash"`,
			DiscountPercent: "5",
		},
	})
	require.NoError(t, err)

	discount, applied := engine.Evaluate(context.Background(), CartSummary{
		Total:  types.MustMoney("50.00"),
		Method: "cash",
	})

	assert.Nil(t, applied)
	assert.True(t, discount.IsZero())
}

func TestEngine_BestRuleWins(t *testing.T) {
	engine, err := NewEngine([]Rule{
		{Name: "flat 2", Expression: `itemCount >= 2`, DiscountAmount: "2.00"},
		{Name: "10%", Expression: `total >= 50.0`, DiscountPercent: "10"},
	})
	require.NoError(t, err)

	discount, applied := engine.Evaluate(context.Background(), CartSummary{
		Total:     types.MustMoney("80.00"),
		ItemCount: 4,
	})

	require.NotNil(t, applied)
	assert.Equal(t, "10%", applied.Name)
	assert.True(t, discount.Equal(types.MustMoney("8.00")))
}

func TestEngine_DiscountCappedAtTotal(t *testing.T) {
	engine, err := NewEngine([]Rule{
		{Name: "flat 10", Expression: `true`, DiscountAmount: "10.00"},
	})
	require.NoError(t, err)

	discount, _ := engine.Evaluate(context.Background(), CartSummary{
		Total: types.MustMoney("4.00"),
	})
	assert.True(t, discount.Equal(types.MustMoney("4.00")))
}

func TestEngine_RejectsInvalidRules(t *testing.T) {
	_, err := NewEngine([]Rule{
		{Name: "broken", Expression: `total >`, DiscountPercent: "5"},
	})
	assert.Error(t, err)

	_, err = NewEngine([]Rule{
		{Name: "not bool", Expression: `total + 1.0`, DiscountPercent: "5"},
	})
	assert.Error(t, err)

	_, err = NewEngine([]Rule{
		{Name: "no discount", Expression: `true`},
	})
	assert.Error(t, err)
}
