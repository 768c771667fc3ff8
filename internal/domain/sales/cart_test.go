package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"caixa/internal/core/types"
	"caixa/internal/domain/catalog/product"
)

func newTestProduct(name, price string) *product.Product {
	return product.NewProduct("PRD-"+name, name, product.UnitPiece, types.MustMoney(price))
}

func TestCart_AddOrIncrement(t *testing.T) {
	cart := NewCart()
	rice := newTestProduct("Rice", "8.90")

	cart.AddOrIncrement(rice, types.One)
	assert.Equal(t, 1, cart.ItemCount())
	assert.True(t, cart.Total().Equal(types.MustMoney("8.90")))

	// Same product increments the existing line
	cart.AddOrIncrement(rice, types.One)
	assert.Equal(t, 1, cart.ItemCount())

	line := cart.Lines()[0]
	assert.Equal(t, 2*types.One, line.Quantity)
	assert.True(t, line.LineTotal.Equal(types.MustMoney("17.80")))
	assert.True(t, cart.Total().Equal(types.MustMoney("17.80")))
}

func TestCart_LineTotalInvariant(t *testing.T) {
	cart := NewCart()
	beans := newTestProduct("Beans", "6.50")
	cart.AddOrIncrement(beans, 3*types.One)

	for _, line := range cart.Lines() {
		expected := line.UnitPrice.Mul(line.Quantity.Decimal())
		assert.True(t, line.LineTotal.Equal(expected),
			"line total must equal unit price times quantity")
	}
}

func TestCart_WeighedItem(t *testing.T) {
	cart := NewCart()
	cheese := product.NewProduct("PRD-Cheese", "Cheese", product.UnitKg, types.MustMoney("40.00"))

	half, err := types.NewQuantityFromString("0.5")
	assert.NoError(t, err)

	cart.AddOrIncrement(cheese, half)
	assert.True(t, cart.Total().Equal(types.MustMoney("20.00")))
}

func TestCart_SetQuantity(t *testing.T) {
	cart := NewCart()
	rice := newTestProduct("Rice", "8.90")
	cart.AddOrIncrement(rice, types.One)

	cart.SetQuantity(rice.ID, 5*types.One)
	line := cart.Lines()[0]
	assert.Equal(t, 5*types.One, line.Quantity)
	assert.True(t, line.LineTotal.Equal(types.MustMoney("44.50")))
}

func TestCart_SetQuantityNonPositiveRemovesLine(t *testing.T) {
	rice := newTestProduct("Rice", "8.90")

	cart := NewCart()
	cart.AddOrIncrement(rice, types.One)
	cart.SetQuantity(rice.ID, 0)
	assert.True(t, cart.IsEmpty())

	cart = NewCart()
	cart.AddOrIncrement(rice, types.One)
	cart.SetQuantity(rice.ID, -types.One)
	assert.True(t, cart.IsEmpty())
}

func TestCart_RemoveLine(t *testing.T) {
	cart := NewCart()
	rice := newTestProduct("Rice", "8.90")
	beans := newTestProduct("Beans", "6.50")

	cart.AddOrIncrement(rice, types.One)
	cart.AddOrIncrement(beans, types.One)

	cart.RemoveLine(rice.ID)
	assert.Equal(t, 1, cart.ItemCount())
	assert.Equal(t, beans.ID, cart.Lines()[0].ProductID)
}

func TestCart_ClearAndRemoveAreIdempotent(t *testing.T) {
	cart := NewCart()

	// Neither panics nor changes anything on an empty cart
	assert.NotPanics(t, func() {
		cart.Clear()
		cart.RemoveLine(newTestProduct("Ghost", "1.00").ID)
	})
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())

	cart.AddOrIncrement(newTestProduct("Rice", "8.90"), types.One)
	cart.Clear()
	cart.Clear()
	assert.True(t, cart.IsEmpty())
}

func TestCart_AddIgnoresNegativeQuantity(t *testing.T) {
	cart := NewCart()
	cart.AddOrIncrement(newTestProduct("Rice", "8.90"), -types.One)
	assert.True(t, cart.IsEmpty())
}

func TestCart_ZeroQuantityDefaultsToOneForPieceGoods(t *testing.T) {
	cart := NewCart()
	cart.AddOrIncrement(newTestProduct("Rice", "8.90"), 0)

	assert.Equal(t, 1, cart.ItemCount())
	assert.Equal(t, types.One, cart.Lines()[0].Quantity)
	assert.True(t, cart.Total().Equal(types.MustMoney("8.90")))

	// Weighed goods have no default: the quantity comes from the scale
	cheese := product.NewProduct("PRD-Cheese", "Cheese", product.UnitKg, types.MustMoney("40.00"))
	cart = NewCart()
	cart.AddOrIncrement(cheese, 0)
	assert.True(t, cart.IsEmpty())
}
