package dashboard

import (
	"context"
	"time"
)

// Repository defines dashboard data access.
type Repository interface {
	// GetSalesSummary aggregates completed sales between the dates.
	GetSalesSummary(ctx context.Context, from, to time.Time) (SalesSummary, error)

	// GetTopProducts returns best-selling products by quantity sold.
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)

	// GetLowStock returns products at or below their alert threshold.
	GetLowStock(ctx context.Context, limit int) ([]LowStockItem, error)

	// GetDailySeries returns per-day totals for the period.
	GetDailySeries(ctx context.Context, from, to time.Time) ([]DailyPoint, error)
}
