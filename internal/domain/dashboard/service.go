package dashboard

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultTopProducts = 5
	defaultLowStock    = 20
)

// Service provides dashboard aggregation.
type Service struct {
	repo Repository
}

// NewService creates a new dashboard service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOverview builds the full dashboard payload: today and month-to-date
// summaries, the best sellers of the month, low-stock alerts, and a daily
// series for the last 30 days.
func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := s.repo.GetSalesSummary(ctx, todayStart, now)
	if err != nil {
		return nil, fmt.Errorf("today summary: %w", err)
	}

	month, err := s.repo.GetSalesSummary(ctx, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("month summary: %w", err)
	}

	topProducts, err := s.repo.GetTopProducts(ctx, monthStart, now, defaultTopProducts)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	lowStock, err := s.repo.GetLowStock(ctx, defaultLowStock)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	series, err := s.repo.GetDailySeries(ctx, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}

	return &Overview{
		Today:       today,
		Month:       month,
		TopProducts: topProducts,
		LowStock:    lowStock,
		DailySeries: series,
	}, nil
}

// GetSummary aggregates completed sales for an arbitrary period.
func (s *Service) GetSummary(ctx context.Context, from, to time.Time) (SalesSummary, error) {
	if from.IsZero() || to.IsZero() {
		return SalesSummary{}, fmt.Errorf("fromDate and toDate are required")
	}
	if from.After(to) {
		return SalesSummary{}, fmt.Errorf("fromDate must be before toDate")
	}
	return s.repo.GetSalesSummary(ctx, from, to)
}
