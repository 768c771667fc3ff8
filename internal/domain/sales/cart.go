// Package sales provides the point-of-sale core: the cart and payment
// ledgers, the checkout coordinator, and the persisted Sale aggregate.
package sales

import (
	"caixa/internal/core/id"
	"caixa/internal/core/types"
	"caixa/internal/domain/catalog/product"
)

// CartLine is one item in the in-progress sale. LineTotal is recomputed on
// every mutation and always equals UnitPrice * Quantity.
type CartLine struct {
	ProductID   id.ID          `json:"productId"`
	ProductName string         `json:"productName"`
	Unit        product.Unit   `json:"unit"`
	UnitPrice   types.Money    `json:"unitPrice"`
	UnitCost    types.Money    `json:"unitCost"`
	Quantity    types.Quantity `json:"quantity"`
	LineTotal   types.Money    `json:"lineTotal"`
}

// Cart holds the line items for the sale being assembled. It owns its state:
// all mutation goes through its methods, and totals are recomputed on every
// change. A Cart is not safe for concurrent use.
type Cart struct {
	lines []CartLine
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{lines: make([]CartLine, 0)}
}

// AddOrIncrement adds a product to the cart, or increments the quantity of
// the existing line for the same product. The unit price is captured from
// the product at add time. A zero quantity on piece goods means one unit:
// scanning a barcode adds a single item.
func (c *Cart) AddOrIncrement(p *product.Product, qty types.Quantity) {
	if qty.IsZero() && !p.IsWeighed() {
		qty = types.One
	}
	if qty <= 0 {
		return
	}

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += qty
			c.recalculate(i)
			return
		}
	}

	line := CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		Unit:        p.Unit,
		UnitPrice:   p.Price,
		UnitCost:    p.Cost,
		Quantity:    qty,
	}
	c.lines = append(c.lines, line)
	c.recalculate(len(c.lines) - 1)
}

// SetQuantity replaces the quantity of a line. A non-positive quantity
// removes the line. Unknown product IDs are ignored.
func (c *Cart) SetQuantity(productID id.ID, qty types.Quantity) {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		c.lines[i].Quantity = qty
		c.recalculate(i)
		return
	}
}

// RemoveLine removes the line for a product. No-op if absent.
func (c *Cart) RemoveLine(productID id.ID) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear removes all lines. Safe to call on an empty cart.
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount returns the number of distinct lines.
func (c *Cart) ItemCount() int {
	return len(c.lines)
}

// Total returns the sum of line totals.
func (c *Cart) Total() types.Money {
	total := types.Zero()
	for _, l := range c.lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

func (c *Cart) recalculate(i int) {
	c.lines[i].LineTotal = c.lines[i].UnitPrice.Mul(c.lines[i].Quantity.Decimal())
}
