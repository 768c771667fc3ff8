package dto

import (
	"caixa/internal/core/types"
	"caixa/internal/domain/catalog/product"
)

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	Code     string         `json:"code"`
	Name     string         `json:"name" binding:"required"`
	Barcode  *string        `json:"barcode"`
	Category *string        `json:"category"`
	Unit     string         `json:"unit" binding:"required"`
	Price    types.Money    `json:"price"`
	Cost     types.Money    `json:"cost"`
	Stock    types.Quantity `json:"stock"`
	MinStock types.Quantity `json:"minStock"`
}

// ToEntity converts request to domain entity.
func (r CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name, product.Unit(r.Unit), r.Price)
	p.Barcode = r.Barcode
	p.Category = r.Category
	p.Cost = r.Cost
	p.Stock = r.Stock
	p.MinStock = r.MinStock
	return p
}

// UpdateProductRequest for updating products.
type UpdateProductRequest struct {
	Name     *string         `json:"name"`
	Barcode  *string         `json:"barcode"`
	Category *string         `json:"category"`
	Unit     *string         `json:"unit"`
	Price    *types.Money    `json:"price"`
	Cost     *types.Money    `json:"cost"`
	MinStock *types.Quantity `json:"minStock"`
	Active   *bool           `json:"active"`
	Version  int             `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields to an existing entity.
// Stock is deliberately absent: on-hand quantity changes only through
// stock movements and sales, never through a catalog update.
func (r UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Barcode != nil {
		p.Barcode = r.Barcode
	}
	if r.Category != nil {
		p.Category = r.Category
	}
	if r.Unit != nil {
		p.Unit = product.Unit(*r.Unit)
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Cost != nil {
		p.Cost = *r.Cost
	}
	if r.MinStock != nil {
		p.MinStock = *r.MinStock
	}
	if r.Active != nil {
		p.Active = *r.Active
	}
	p.Version = r.Version
}

// ProductResponse contains product fields.
type ProductResponse struct {
	CatalogResponse
	Barcode  *string        `json:"barcode,omitempty"`
	Category *string        `json:"category,omitempty"`
	Unit     string         `json:"unit"`
	Price    types.Money    `json:"price"`
	Cost     types.Money    `json:"cost"`
	Stock    types.Quantity `json:"stock"`
	MinStock types.Quantity `json:"minStock"`
	Active   bool           `json:"active"`
	LowStock bool           `json:"lowStock"`
}

// FromProduct creates ProductResponse from domain entity.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		Barcode:         p.Barcode,
		Category:        p.Category,
		Unit:            string(p.Unit),
		Price:           p.Price,
		Cost:            p.Cost,
		Stock:           p.Stock,
		MinStock:        p.MinStock,
		Active:          p.Active,
		LowStock:        p.IsLowStock(),
	}
}
