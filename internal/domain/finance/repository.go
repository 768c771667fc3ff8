package finance

import (
	"context"
	"time"

	"caixa/internal/core/id"
	"caixa/internal/domain"
)

// Repository defines the interface for Bill persistence.
type Repository interface {
	// Create inserts a new bill.
	Create(ctx context.Context, bill *Bill) error

	// GetByID retrieves a bill.
	GetByID(ctx context.Context, billID id.ID) (*Bill, error)

	// Update saves bill changes with optimistic locking.
	Update(ctx context.Context, bill *Bill) error

	// List retrieves bills with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Bill], error)
}

// ListFilter for bill queries.
type ListFilter struct {
	Type        *BillType
	Status      *BillStatus
	CustomerID  *id.ID
	DueBefore   *time.Time
	OverdueOnly bool
	Limit       int
	Offset      int
}
