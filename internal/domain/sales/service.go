package sales

import (
	"context"
	"fmt"

	"caixa/internal/core/apperror"
	appctx "caixa/internal/core/context"
	"caixa/internal/core/id"
	"caixa/internal/core/tx"
	"caixa/internal/domain"
	"caixa/internal/domain/stock"
	"caixa/pkg/logger"
)

// Service provides queries and corrections over persisted sales. Committing
// new sales is the Coordinator's job.
type Service struct {
	repo      Repository
	products  ProductStore
	movements MovementRecorder
	events    EventPublisher
	txManager tx.Manager
}

// NewService creates a new sales service. events may be nil.
func NewService(
	repo Repository,
	products ProductStore,
	movements MovementRecorder,
	events EventPublisher,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		movements: movements,
		events:    events,
		txManager: txManager,
	}
}

// GetByID retrieves a sale with lines and payments.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return s.loadParts(ctx, sale)
}

// GetByNumber retrieves a sale by receipt number, with lines and payments.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Sale, error) {
	sale, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.loadParts(ctx, sale)
}

func (s *Service) loadParts(ctx context.Context, sale *Sale) (*Sale, error) {
	lines, err := s.repo.GetLines(ctx, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	sale.Lines = lines

	payments, err := s.repo.GetPayments(ctx, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	sale.Payments = payments

	return sale, nil
}

// List retrieves sales with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}

// Cancel reverses a completed sale. The status change, the stock restores,
// and one compensating return movement per line commit atomically. The sale
// record itself is never edited in place.
func (s *Service) Cancel(ctx context.Context, saleID id.ID) error {
	sale, err := s.GetByID(ctx, saleID)
	if err != nil {
		return err
	}

	if !sale.IsCancellable() {
		return apperror.NewBusinessRule(apperror.CodeSaleNotCancellable,
			"only completed sales can be cancelled").
			WithDetail("sale_id", saleID.String()).
			WithDetail("status", string(sale.Status))
	}

	userID := appctx.GetUserID(ctx)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateStatus(ctx, saleID, StatusCancelled, sale.Version); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		movements := make([]stock.Movement, 0, len(sale.Lines))
		for _, line := range sale.Lines {
			if err := s.products.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("restore stock for %s: %w", line.ProductID, err)
			}

			m := stock.NewMovement(line.ProductID, stock.TypeIn, line.Quantity, stock.ReasonReturn)
			m.SaleID = &sale.ID
			m.Number = sale.Number
			m.CreatedBy = userID
			movements = append(movements, m)
		}

		if err := s.movements.CreateMovements(ctx, movements); err != nil {
			return fmt.Errorf("record return movements: %w", err)
		}

		if s.events != nil {
			if err := s.events.SaleCancelled(ctx, sale); err != nil {
				return fmt.Errorf("publish sale event: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale cancelled", "sale_id", saleID, "number", sale.Number)
	return nil
}
