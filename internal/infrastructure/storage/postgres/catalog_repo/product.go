package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"caixa/internal/core/apperror"
	"caixa/internal/core/id"
	"caixa/internal/core/types"
	"caixa/internal/domain"
	"caixa/internal/domain/catalog/product"
	"caixa/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			txManager,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// FindByBarcode retrieves a product by barcode.
func (r *ProductRepo) FindByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"barcode": barcode}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", barcode)
		}
		return nil, err
	}
	return item, nil
}

// FindLowStock retrieves active products whose stock is at or below
// the alert threshold.
func (r *ProductRepo) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	result := domain.ListResult[*product.Product]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Expr("min_stock > 0 AND stock <= min_stock")).
		OrderBy("name ASC")

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

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return result, fmt.Errorf("find low stock: %w", err)
	}
	result.Items = items
	result.TotalCount = int64(len(items))

	return result, nil
}

// GetStock reads the current on-hand quantity.
func (r *ProductRepo) GetStock(ctx context.Context, productID id.ID) (types.Quantity, error) {
	q := r.Builder().
		Select("stock").
		From(productTable).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var stock types.Quantity
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&stock)
	if err == pgx.ErrNoRows {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	if err != nil {
		return 0, fmt.Errorf("get stock: %w", err)
	}

	return stock, nil
}

// DecrementStock atomically decrements stock if enough is available.
// The WHERE clause makes the check-and-decrement a single statement, so
// concurrent checkouts can never drive stock negative. Returns false
// when no row matched (product missing or insufficient stock).
func (r *ProductRepo) DecrementStock(ctx context.Context, productID id.ID, qty types.Quantity) (bool, error) {
	sql := fmt.Sprintf(
		"UPDATE %s SET stock = stock - $2, version = version + 1 WHERE id = $1 AND stock >= $2",
		productTable,
	)

	result, err := r.querier(ctx).Exec(ctx, sql, productID, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// IncrementStock adds quantity back (receipts, returns, cancellations).
func (r *ProductRepo) IncrementStock(ctx context.Context, productID id.ID, qty types.Quantity) error {
	sql := fmt.Sprintf(
		"UPDATE %s SET stock = stock + $2, version = version + 1 WHERE id = $1",
		productTable,
	)

	result, err := r.querier(ctx).Exec(ctx, sql, productID, qty)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}

	return nil
}
