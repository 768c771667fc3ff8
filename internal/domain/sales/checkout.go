package sales

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
	"caixa/internal/domain/stock"
	"caixa/pkg/logger"
)

// CheckoutState tracks a checkout attempt through its lifecycle.
type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateValidating CheckoutState = "validating"
	StateCommitting CheckoutState = "committing"
	StateSucceeded  CheckoutState = "succeeded"
	StateFailed     CheckoutState = "failed"
)

// Coordinator is the only component allowed to turn a cart and payment
// ledger pair into a persisted Sale, and the only component allowed to
// decrement product stock for a sale.
type Coordinator struct {
	sales     Repository
	products  ProductStore
	movements MovementRecorder
	events    EventPublisher
	txManager tx.Manager
	numerator numerator.Generator
}

// NewCoordinator creates a checkout coordinator. events may be nil.
func NewCoordinator(
	sales Repository,
	products ProductStore,
	movements MovementRecorder,
	events EventPublisher,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Coordinator {
	return &Coordinator{
		sales:     sales,
		products:  products,
		movements: movements,
		events:    events,
		txManager: txManager,
		numerator: numerator,
	}
}

// CheckoutInput carries the ledgers and options for one checkout attempt.
type CheckoutInput struct {
	Cart       *Cart
	Payments   *PaymentLedger
	CustomerID *id.ID

	// Discount is subtracted from the cart total before payment matching.
	Discount types.Money

	// Notes is an optional receipt comment.
	Notes string
}

// Checkout validates the ledgers and commits the sale in a single
// transaction: sale header, lines, payments, stock decrements, and one
// outbound movement per line all persist atomically or not at all.
//
// Validation order: empty cart, then per-line stock (re-read fresh, never
// the cart's stale snapshot), then exact payment match. Stock is checked
// again inside the transaction via conditional decrements, so a concurrent
// sale between validation and commit still cannot drive stock negative.
//
// On success the cart and payment ledgers are cleared.
func (c *Coordinator) Checkout(ctx context.Context, input CheckoutInput) (*Sale, error) {
	state := StateValidating

	sale, err := c.run(ctx, &state, input)
	if err != nil {
		state = StateFailed
		logger.Warn(ctx, "checkout failed", "state", state, "error", err)
		return nil, err
	}

	state = StateSucceeded
	input.Cart.Clear()
	input.Payments.Clear()

	logger.Info(ctx, "checkout succeeded",
		"sale_id", sale.ID,
		"number", sale.Number,
		"total", sale.Total.String(),
	)
	return sale, nil
}

func (c *Coordinator) run(ctx context.Context, state *CheckoutState, input CheckoutInput) (*Sale, error) {
	if err := c.validate(ctx, input); err != nil {
		return nil, err
	}

	*state = StateCommitting

	sale := NewSale(input.Cart, input.Payments, input.CustomerID, input.Discount)
	sale.Status = StatusCompleted
	sale.Notes = input.Notes
	sale.CreatedBy = appctx.GetUserID(ctx)
	sale.UpdatedBy = sale.CreatedBy

	if err := sale.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := c.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SALE"), nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	sale.Number = number

	err = c.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return c.commit(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// validate checks, in order: cart non-empty, per-line stock against a fresh
// read, exact payment match.
func (c *Coordinator) validate(ctx context.Context, input CheckoutInput) error {
	if input.Cart.IsEmpty() {
		return apperror.NewEmptyCart()
	}

	for _, line := range input.Cart.Lines() {
		available, err := c.products.GetStock(ctx, line.ProductID)
		if err != nil {
			return fmt.Errorf("read stock for %s: %w", line.ProductID, err)
		}
		if available < line.Quantity {
			return apperror.NewInsufficientStock(
				line.ProductID.String(),
				line.Quantity.String(),
				available.String(),
			)
		}
	}

	if input.Discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount")
	}

	// Exact decimal comparison: no tolerance band.
	saleTotal := input.Cart.Total().Sub(input.Discount)
	remaining := input.Payments.RemainingDue(saleTotal)
	if !remaining.IsZero() {
		return apperror.NewPaymentMismatch(remaining.String())
	}

	return nil
}

// commit runs inside the transaction. Any error rolls back every write.
func (c *Coordinator) commit(ctx context.Context, sale *Sale) error {
	if err := c.sales.Create(ctx, sale); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	if err := c.sales.SaveLines(ctx, sale.ID, sale.Lines); err != nil {
		return apperror.NewCommitPartialFailure(sale.ID.String(), fmt.Errorf("save lines: %w", err))
	}
	if err := c.sales.SavePayments(ctx, sale.ID, sale.Payments); err != nil {
		return apperror.NewCommitPartialFailure(sale.ID.String(), fmt.Errorf("save payments: %w", err))
	}

	movements := make([]stock.Movement, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		// Conditional decrement: matches only while enough stock remains.
		ok, err := c.products.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", line.ProductID, err)
		}
		if !ok {
			available, readErr := c.products.GetStock(ctx, line.ProductID)
			if readErr != nil {
				available = 0
			}
			return apperror.NewInsufficientStock(
				line.ProductID.String(),
				line.Quantity.String(),
				available.String(),
			)
		}

		m := stock.NewMovement(line.ProductID, stock.TypeOut, line.Quantity, stock.ReasonSale)
		m.SaleID = &sale.ID
		m.Number = sale.Number
		m.CreatedBy = sale.CreatedBy
		movements = append(movements, m)
	}

	if err := c.movements.CreateMovements(ctx, movements); err != nil {
		return apperror.NewCommitPartialFailure(sale.ID.String(), fmt.Errorf("record movements: %w", err))
	}

	if c.events != nil {
		if err := c.events.SaleCompleted(ctx, sale); err != nil {
			return fmt.Errorf("publish sale event: %w", err)
		}
	}

	return nil
}
