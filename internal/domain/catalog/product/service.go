package product

import (
	"context"
	"fmt"
	"time"

	"caixa/internal/core/apperror"
	"caixa/internal/core/id"
	"caixa/internal/core/numerator"
	"caixa/internal/core/tx"
	"caixa/internal/core/types"
	"caixa/internal/domain"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Product service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkBarcodeUnique)

	return svc
}

// prepareForCreate handles code generation and barcode uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, item *Product) error {
	// Generate code if not provided
	if item.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("PRD"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		item.Code = code
	}

	return s.checkBarcodeUnique(ctx, item)
}

func (s *Service) checkBarcodeUnique(ctx context.Context, item *Product) error {
	if item.Barcode == nil || *item.Barcode == "" {
		return nil
	}
	existing, err := s.repo.FindByBarcode(ctx, *item.Barcode)
	if err != nil {
		return nil
	}
	if existing.ID != item.ID {
		return apperror.NewConflict("product with this barcode already exists").
			WithDetail("barcode", *item.Barcode)
	}
	return nil
}

// --- Entity-specific methods ---

// FindByBarcode retrieves a product by barcode.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*Product, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", barcode)
		}
		return nil, err
	}
	return p, nil
}

// FindLowStock retrieves products with stock at or below minimum.
func (s *Service) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.FindLowStock(ctx, filter)
}

// GetStock reads the current on-hand quantity for a product.
func (s *Service) GetStock(ctx context.Context, productID id.ID) (types.Quantity, error) {
	return s.repo.GetStock(ctx, productID)
}
