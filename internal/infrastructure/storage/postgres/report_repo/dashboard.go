// Package report_repo provides PostgreSQL implementations for reporting
// queries. Aggregates are computed in SQL; nothing here mutates state.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"caixa/internal/core/types"
	"caixa/internal/domain/dashboard"
	"caixa/internal/infrastructure/storage/postgres"
)

// DashboardRepo implements dashboard.Repository.
type DashboardRepo struct {
	txManager *postgres.TxManager
}

// NewDashboardRepo creates a new dashboard repository.
func NewDashboardRepo(txManager *postgres.TxManager) *DashboardRepo {
	return &DashboardRepo{txManager: txManager}
}

// GetSalesSummary aggregates completed sales between the dates.
func (r *DashboardRepo) GetSalesSummary(ctx context.Context, from, to time.Time) (dashboard.SalesSummary, error) {
	summary := dashboard.SalesSummary{
		FromDate: from,
		ToDate:   to,
	}

	querier := r.txManager.GetQuerier(ctx)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total), 0),
			COALESCE(SUM(total_fees), 0),
			COALESCE(SUM(discount), 0)
		FROM doc_sales
		WHERE status = 'completed'
		  AND deletion_mark = false
		  AND date >= $1 AND date < $2
	`

	var gross, fees, discount decimal.Decimal
	err := querier.QueryRow(ctx, query, from, to).Scan(
		&summary.SaleCount, &gross, &fees, &discount,
	)
	if err != nil {
		return summary, fmt.Errorf("sales summary: %w", err)
	}

	summary.GrossTotal = gross
	summary.TotalFees = fees
	summary.TotalDiscount = discount

	if summary.SaleCount > 0 {
		summary.AverageTicket = gross.Div(decimal.NewFromInt(summary.SaleCount)).Round(2)
	} else {
		summary.AverageTicket = types.Zero()
	}

	byMethod, err := r.getMethodBreakdown(ctx, from, to)
	if err != nil {
		return summary, err
	}
	summary.ByMethod = byMethod

	return summary, nil
}

func (r *DashboardRepo) getMethodBreakdown(ctx context.Context, from, to time.Time) ([]dashboard.MethodSummary, error) {
	query := `
		SELECT
			p.method,
			COUNT(*) AS count,
			COALESCE(SUM(p.amount), 0) AS amount
		FROM doc_sale_payments p
		JOIN doc_sales s ON p.sale_id = s.id
		WHERE s.status = 'completed'
		  AND s.deletion_mark = false
		  AND s.date >= $1 AND s.date < $2
		GROUP BY p.method
		ORDER BY amount DESC
	`

	var rows []struct {
		Method string          `db:"method"`
		Count  int64           `db:"count"`
		Amount decimal.Decimal `db:"amount"`
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("method breakdown: %w", err)
	}

	result := make([]dashboard.MethodSummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, dashboard.MethodSummary{
			Method: row.Method,
			Count:  row.Count,
			Amount: row.Amount,
		})
	}

	return result, nil
}

// GetTopProducts returns best-selling products by quantity sold.
func (r *DashboardRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]dashboard.TopProduct, error) {
	query := `
		SELECT
			l.product_id,
			l.product_name,
			COALESCE(SUM(l.quantity), 0)::bigint AS quantity,
			COALESCE(SUM(l.line_total), 0) AS revenue
		FROM doc_sale_lines l
		JOIN doc_sales s ON l.sale_id = s.id
		WHERE s.status = 'completed'
		  AND s.deletion_mark = false
		  AND s.date >= $1 AND s.date < $2
		GROUP BY l.product_id, l.product_name
		ORDER BY quantity DESC, revenue DESC
		LIMIT $3
	`

	var rows []dashboard.TopProduct
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, from, to, limit); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	return rows, nil
}

// GetLowStock returns products at or below their alert threshold.
func (r *DashboardRepo) GetLowStock(ctx context.Context, limit int) ([]dashboard.LowStockItem, error) {
	query := `
		SELECT
			id AS product_id,
			name AS product_name,
			stock,
			min_stock
		FROM cat_products
		WHERE deletion_mark = false
		  AND active = true
		  AND min_stock > 0
		  AND stock <= min_stock
		ORDER BY stock::float8 / min_stock ASC, name
		LIMIT $1
	`

	var rows []dashboard.LowStockItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	return rows, nil
}

// GetDailySeries returns per-day totals for the period.
func (r *DashboardRepo) GetDailySeries(ctx context.Context, from, to time.Time) ([]dashboard.DailyPoint, error) {
	query := `
		SELECT
			date_trunc('day', date) AS date,
			COUNT(*) AS sale_count,
			COALESCE(SUM(total), 0) AS total
		FROM doc_sales
		WHERE status = 'completed'
		  AND deletion_mark = false
		  AND date >= $1 AND date < $2
		GROUP BY date_trunc('day', date)
		ORDER BY date
	`

	var rows []dashboard.DailyPoint
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}

	return rows, nil
}

// Ensure interface compliance
var _ dashboard.Repository = (*DashboardRepo)(nil)
