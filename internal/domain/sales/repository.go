package sales

import (
	"context"
	"time"

	"caixa/internal/core/id"
	"caixa/internal/core/types"
	"caixa/internal/domain"
	"caixa/internal/domain/stock"
)

// ProductStore is the slice of the product repository the sales flow needs:
// fresh stock reads and atomic stock changes.
type ProductStore interface {
	// GetStock reads the current on-hand quantity.
	GetStock(ctx context.Context, productID id.ID) (types.Quantity, error)

	// DecrementStock atomically decrements stock if enough is available.
	// Returns false (no error) when the conditional update matched no row.
	DecrementStock(ctx context.Context, productID id.ID, qty types.Quantity) (bool, error)

	// IncrementStock adds quantity back (cancellations).
	IncrementStock(ctx context.Context, productID id.ID, qty types.Quantity) error
}

// MovementRecorder appends stock movement audit rows.
type MovementRecorder interface {
	CreateMovements(ctx context.Context, movements []stock.Movement) error
}

// EventPublisher records domain events in the same transaction that
// produced them (transactional outbox). May be nil when no event
// consumers are configured.
type EventPublisher interface {
	SaleCompleted(ctx context.Context, sale *Sale) error
	SaleCancelled(ctx context.Context, sale *Sale) error
}

// Repository defines the interface for Sale persistence.
type Repository interface {
	// Create inserts the sale header.
	Create(ctx context.Context, sale *Sale) error

	// SaveLines replaces the line table part for a sale.
	SaveLines(ctx context.Context, saleID id.ID, lines []SaleLine) error

	// SavePayments replaces the payment table part for a sale.
	SavePayments(ctx context.Context, saleID id.ID, payments []SalePayment) error

	// GetByID retrieves the sale header (without table parts).
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// GetByNumber retrieves the sale header by receipt number.
	GetByNumber(ctx context.Context, number string) (*Sale, error)

	// GetLines retrieves sale lines ordered by line number.
	GetLines(ctx context.Context, saleID id.ID) ([]SaleLine, error)

	// GetPayments retrieves sale payments ordered by tender position.
	GetPayments(ctx context.Context, saleID id.ID) ([]SalePayment, error)

	// UpdateStatus transitions the sale status with optimistic locking.
	UpdateStatus(ctx context.Context, saleID id.ID, status Status, version int) error

	// List retrieves sales with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error)
}

// ListFilter for sale queries.
type ListFilter struct {
	Status     *Status
	CustomerID *id.ID
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// DefaultListFilter returns a filter with sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 50}
}
