package finance

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
	"caixa/internal/domain"
	"caixa/pkg/logger"
)

// Service provides business logic for bills.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new finance service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: numerator,
	}
}

// Create registers a new bill.
func (s *Service) Create(ctx context.Context, bill *Bill) error {
	if err := bill.Validate(ctx); err != nil {
		return err
	}

	if bill.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("BILL"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		bill.Number = number
	}
	bill.CreatedBy = appctx.GetUserID(ctx)
	bill.UpdatedBy = bill.CreatedBy

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, bill)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "bill created",
		"bill_id", bill.ID,
		"number", bill.Number,
		"type", bill.Type,
		"amount", bill.Amount.String(),
	)
	return nil
}

// GetByID retrieves a bill.
func (s *Service) GetByID(ctx context.Context, billID id.ID) (*Bill, error) {
	return s.repo.GetByID(ctx, billID)
}

// List retrieves bills with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Bill], error) {
	return s.repo.List(ctx, filter)
}

// RecordPayment applies a payment to a bill. The read, the status change,
// and the write commit atomically.
func (s *Service) RecordPayment(ctx context.Context, billID id.ID, amount types.Money) (*Bill, error) {
	var bill *Bill

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		bill, err = s.repo.GetByID(ctx, billID)
		if err != nil {
			return err
		}

		if err := bill.ApplyPayment(amount); err != nil {
			return err
		}

		bill.UpdatedBy = appctx.GetUserID(ctx)
		if err := s.repo.Update(ctx, bill); err != nil {
			return fmt.Errorf("update bill: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "bill payment recorded",
		"bill_id", billID,
		"amount", amount.String(),
		"status", bill.Status,
	)
	return bill, nil
}

// Void cancels an unsettled bill.
func (s *Service) Void(ctx context.Context, billID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		bill, err := s.repo.GetByID(ctx, billID)
		if err != nil {
			return err
		}

		if bill.Status == StatusPaid {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "cannot void a paid bill").
				WithDetail("bill_id", billID.String())
		}

		bill.Status = StatusVoided
		bill.UpdatedBy = appctx.GetUserID(ctx)
		return s.repo.Update(ctx, bill)
	})
}
