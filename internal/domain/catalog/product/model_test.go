package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caixa/internal/core/types"
)

func TestProduct_Validate(t *testing.T) {
	p := NewProduct("PRD-001", "Rice 5kg", UnitPiece, types.MustMoney("8.90"))
	require.NoError(t, p.Validate(context.Background()))
}

func TestProduct_RejectsNegativePrice(t *testing.T) {
	p := NewProduct("PRD-001", "Rice 5kg", UnitPiece, types.MustMoney("-1.00"))
	assert.Error(t, p.Validate(context.Background()))
}

func TestProduct_RejectsUnknownUnit(t *testing.T) {
	p := NewProduct("PRD-001", "Rice 5kg", Unit("liter"), types.MustMoney("8.90"))
	assert.Error(t, p.Validate(context.Background()))
}

func TestProduct_PieceGoodsRequireWholeQuantities(t *testing.T) {
	p := NewProduct("PRD-001", "Rice 5kg", UnitPiece, types.MustMoney("8.90"))
	p.Stock = types.NewQuantityFromFloat64(2.5)
	assert.Error(t, p.Validate(context.Background()))

	// Weighed goods accept fractional stock
	p = NewProduct("PRD-002", "Mozzarella", UnitKg, types.MustMoney("39.90"))
	p.Stock = types.NewQuantityFromFloat64(2.5)
	assert.NoError(t, p.Validate(context.Background()))
}

func TestProduct_IsLowStock(t *testing.T) {
	p := NewProduct("PRD-001", "Rice 5kg", UnitPiece, types.MustMoney("8.90"))

	// No threshold configured: never low
	p.Stock = types.NewQuantityFromInt64(0)
	assert.False(t, p.IsLowStock())

	p.MinStock = types.NewQuantityFromInt64(10)
	p.Stock = types.NewQuantityFromInt64(10)
	assert.True(t, p.IsLowStock())

	p.Stock = types.NewQuantityFromInt64(11)
	assert.False(t, p.IsLowStock())
}
