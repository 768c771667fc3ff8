package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"caixa/internal/domain"
	"caixa/internal/domain/finance"
	"caixa/internal/infrastructure/storage/postgres"
)

const billsTable = "doc_bills"

// BillRepo implements finance.Repository.
type BillRepo struct {
	*BaseDocumentRepo[*finance.Bill]
}

// NewBillRepo creates a new bill repository.
func NewBillRepo(txManager *postgres.TxManager) *BillRepo {
	return &BillRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*finance.Bill](
			txManager,
			billsTable,
			postgres.ExtractDBColumns[finance.Bill](),
			func() *finance.Bill { return &finance.Bill{} },
		),
	}
}

// List retrieves bills with filtering.
func (r *BillRepo) List(ctx context.Context, filter finance.ListFilter) (domain.ListResult[*finance.Bill], error) {
	result := domain.ListResult[*finance.Bill]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false})

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}

	if filter.DueBefore != nil {
		q = q.Where(squirrel.Lt{"due_date": *filter.DueBefore})
	}

	if filter.OverdueOnly {
		q = q.Where("due_date < NOW()").
			Where(squirrel.Eq{"status": []finance.BillStatus{finance.StatusOpen, finance.StatusPartially}})
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

	q = q.OrderBy("due_date ASC")

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
