package product

import (
	"context"

	"caixa/internal/core/id"
	"caixa/internal/core/types"
	"caixa/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindByBarcode retrieves a product by barcode.
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// FindLowStock retrieves products with stock at or below minimum.
	FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)

	// GetStock reads the current on-hand quantity.
	GetStock(ctx context.Context, productID id.ID) (types.Quantity, error)

	// DecrementStock atomically decrements stock if enough is available.
	// Returns false (no error) when the conditional update matched no row.
	DecrementStock(ctx context.Context, productID id.ID, qty types.Quantity) (bool, error)

	// IncrementStock adds quantity back (receipts, returns, cancellations).
	IncrementStock(ctx context.Context, productID id.ID, qty types.Quantity) error
}
