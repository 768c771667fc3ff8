package stock

import (
	"context"
	"fmt"
	"time"

	"caixa/internal/core/apperror"
	appctx "caixa/internal/core/context"
	"caixa/internal/core/id"
	"caixa/internal/core/numerator"
	"caixa/internal/core/tx"
	"caixa/internal/core/types"
	"caixa/internal/domain/catalog/product"
	"caixa/pkg/logger"
)

// Service provides business operations for the stock register.
type Service struct {
	repo      Repository
	products  product.Repository
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new stock register service.
func NewService(
	repo Repository,
	products product.Repository,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		txManager: txManager,
		numerator: numerator,
	}
}

// ManualMovementInput describes a user-entered stock adjustment.
type ManualMovementInput struct {
	ProductID id.ID
	Type      MovementType
	Quantity  types.Quantity
	Reason    Reason
	Notes     *string
}

// RecordManual applies a manual stock adjustment: receipt of purchased goods,
// write-off of losses, or an inventory correction. The movement insert and
// the stock change commit atomically.
//
// Sale and return movements are produced by checkout and cancellation only.
func (s *Service) RecordManual(ctx context.Context, input ManualMovementInput) (*Movement, error) {
	switch input.Reason {
	case ReasonPurchase, ReasonLoss, ReasonAdjustment:
	default:
		return nil, apperror.NewValidation("reason not allowed for manual movements").
			WithDetail("reason", string(input.Reason))
	}

	m := NewMovement(input.ProductID, input.Type, input.Quantity, input.Reason)
	m.Notes = input.Notes
	m.CreatedBy = appctx.GetUserID(ctx)

	if err := m.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("MOV"),
		&numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	m.Number = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.applyStockChange(ctx, m); err != nil {
			return err
		}
		if err := s.repo.CreateMovements(ctx, []Movement{m}); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock movement recorded",
		"number", m.Number,
		"product_id", m.ProductID,
		"type", m.Type,
		"reason", m.Reason,
	)
	return &m, nil
}

func (s *Service) applyStockChange(ctx context.Context, m Movement) error {
	if m.Type == TypeIn {
		return s.products.IncrementStock(ctx, m.ProductID, m.Quantity)
	}

	ok, err := s.products.DecrementStock(ctx, m.ProductID, m.Quantity)
	if err != nil {
		return err
	}
	if !ok {
		available, readErr := s.products.GetStock(ctx, m.ProductID)
		if readErr != nil {
			available = 0
		}
		return apperror.NewInsufficientStock(
			m.ProductID.String(),
			m.Quantity.String(),
			available.String(),
		)
	}
	return nil
}

// GetHistory returns movement history for a product, newest first.
func (s *Service) GetHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]Movement, error) {
	return s.repo.GetHistory(ctx, productID, filter)
}

// List returns movements across all products, newest first.
func (s *Service) List(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	return s.repo.List(ctx, filter)
}
