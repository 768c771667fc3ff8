package stock

import (
	"context"
	"time"

	"caixa/internal/core/id"
)

// Repository defines operations for the stock movement register.
type Repository interface {
	// CreateMovements batch inserts movements. Used by sale commits and
	// manual adjustments, always inside the caller's transaction.
	CreateMovements(ctx context.Context, movements []Movement) error

	// GetMovementsBySale retrieves all movements linked to a sale.
	GetMovementsBySale(ctx context.Context, saleID id.ID) ([]Movement, error)

	// GetHistory retrieves movement history for a product, newest first.
	GetHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]Movement, error)

	// List retrieves movements across all products, newest first.
	List(ctx context.Context, filter MovementFilter) ([]Movement, error)
}

// MovementFilter for filtering movement queries.
type MovementFilter struct {
	Type     *MovementType
	Reason   *Reason
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
