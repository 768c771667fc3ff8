// Package product provides the Product catalog: the items a store sells,
// together with their pricing and on-hand stock levels.
package product

import (
	"context"

	"caixa/internal/core/apperror"
	"caixa/internal/core/entity"
	"caixa/internal/core/types"
)

// Unit defines how an item is measured and sold.
type Unit string

const (
	// UnitPiece is sold in whole units (cans, packs, bottles).
	UnitPiece Unit = "unit"
	// UnitKg is sold by weight; fractional quantities are allowed.
	UnitKg Unit = "kg"
)

// Product represents a sellable item.
type Product struct {
	entity.Catalog

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// Category is a free-form grouping label
	Category *string `db:"category" json:"category,omitempty"`

	// Unit defines whether the item is sold by piece or by weight
	Unit Unit `db:"unit" json:"unit"`

	// Price is the current selling price per unit
	Price types.Money `db:"price" json:"price"`

	// Cost is the acquisition cost per unit (for margin reports)
	Cost types.Money `db:"cost" json:"cost"`

	// Stock is the current on-hand quantity
	Stock types.Quantity `db:"stock" json:"stock"`

	// MinStock is the low-stock alert threshold
	MinStock types.Quantity `db:"min_stock" json:"minStock"`

	// Active indicates whether the item can be sold
	Active bool `db:"active" json:"active"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string, unit Unit, price types.Money) *Product {
	return &Product{
		Catalog: entity.NewCatalog(code, name),
		Unit:    unit,
		Price:   price,
		Cost:    types.Zero(),
		Active:  true,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	// Base catalog validation
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidUnit(p.Unit) {
		return apperror.NewValidation("invalid unit").
			WithDetail("field", "unit").
			WithDetail("value", string(p.Unit))
	}

	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	if p.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").
			WithDetail("field", "cost")
	}

	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative").
			WithDetail("field", "minStock")
	}

	// Piece goods are counted in whole units
	if p.Unit == UnitPiece {
		if !p.Stock.IsWhole() || !p.MinStock.IsWhole() {
			return apperror.NewValidation("piece goods require whole quantities").
				WithDetail("field", "unit")
		}
	}

	return nil
}

// IsLowStock returns true if stock is at or below the alert threshold.
func (p *Product) IsLowStock() bool {
	return p.MinStock > 0 && p.Stock <= p.MinStock
}

// IsWeighed returns true if the item is sold by weight.
func (p *Product) IsWeighed() bool {
	return p.Unit == UnitKg
}

func isValidUnit(u Unit) bool {
	switch u {
	case UnitPiece, UnitKg:
		return true
	}
	return false
}
