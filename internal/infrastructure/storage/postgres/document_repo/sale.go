package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"caixa/internal/core/apperror"
	"caixa/internal/core/id"
	"caixa/internal/domain"
	"caixa/internal/domain/sales"
	"caixa/internal/infrastructure/storage/postgres"
)

const (
	salesTable        = "doc_sales"
	saleLinesTable    = "doc_sale_lines"
	salePaymentsTable = "doc_sale_payments"
)

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sales.Sale]
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*sales.Sale](
			txManager,
			salesTable,
			postgres.ExtractDBColumns[sales.Sale](),
			func() *sales.Sale { return &sales.Sale{} },
		),
	}
}

// GetLines retrieves sale lines ordered by line number.
func (r *SaleRepo) GetLines(ctx context.Context, saleID id.ID) ([]sales.SaleLine, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "product_id", "product_name",
			"unit", "quantity", "unit_price", "unit_cost", "line_total",
		).
		From(saleLinesTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []sales.SaleLine
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the line table part for a sale.
func (r *SaleRepo) SaveLines(ctx context.Context, saleID id.ID, lines []sales.SaleLine) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + saleLinesTable + " WHERE sale_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, saleID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(saleLinesTable).
		Columns(
			"line_id", "sale_id", "line_no", "product_id", "product_name",
			"unit", "quantity", "unit_price", "unit_cost", "line_total",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, saleID, line.LineNo, line.ProductID, line.ProductName,
			line.Unit, line.Quantity, line.UnitPrice, line.UnitCost, line.LineTotal,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// GetPayments retrieves sale payments ordered by tender position.
func (r *SaleRepo) GetPayments(ctx context.Context, saleID id.ID) ([]sales.SalePayment, error) {
	q := r.Builder().
		Select("payment_id", "payment_no", "method", "amount", "fee_amount").
		From(salePaymentsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("payment_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payments []sales.SalePayment
	if err := pgxscan.Select(ctx, r.querier(ctx), &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}

	return payments, nil
}

// SavePayments replaces the payment table part for a sale.
func (r *SaleRepo) SavePayments(ctx context.Context, saleID id.ID, payments []sales.SalePayment) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + salePaymentsTable + " WHERE sale_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, saleID); err != nil {
		return fmt.Errorf("delete existing payments: %w", err)
	}

	if len(payments) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(salePaymentsTable).
		Columns("payment_id", "sale_id", "payment_no", "method", "amount", "fee_amount")

	for _, p := range payments {
		q = q.Values(p.PaymentID, saleID, p.PaymentNo, p.Method, p.Amount, p.FeeAmount)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert payments: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payments: %w", err)
	}

	return nil
}

// UpdateStatus transitions the sale status with optimistic locking.
func (r *SaleRepo) UpdateStatus(ctx context.Context, saleID id.ID, status sales.Status, version int) error {
	q := r.Builder().
		Update(salesTable).
		Set("status", status).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": saleID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update status: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(salesTable, saleID)
	}

	return nil
}

// List retrieves sales with filtering.
func (r *SaleRepo) List(ctx context.Context, filter sales.ListFilter) (domain.ListResult[*sales.Sale], error) {
	result := domain.ListResult[*sales.Sale]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false})

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.ToDate})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("date DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
