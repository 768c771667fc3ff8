package sales

import (
	"context"

	"caixa/internal/core/apperror"
	"caixa/internal/core/entity"
	"caixa/internal/core/id"
	"caixa/internal/core/types"
	"caixa/internal/domain/catalog/product"
)

// Status is the lifecycle state of a persisted sale.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Sale is the committed transaction record. Once completed, the aggregate
// and its children are immutable; corrections happen via compensating
// records (cancellation, returns), never in-place edits.
type Sale struct {
	entity.Document

	// CustomerID is the optional buyer reference
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	Status Status `db:"status" json:"status"`

	// Totals (captured from the ledgers at commit time)
	Total     types.Money `db:"total" json:"total"`
	Discount  types.Money `db:"discount" json:"discount"`
	TotalFees types.Money `db:"total_fees" json:"totalFees"`

	// Table parts: immutable snapshots of the ledgers
	Lines    []SaleLine    `db:"-" json:"lines"`
	Payments []SalePayment `db:"-" json:"payments"`
}

// SaleLine is one sold item, a frozen copy of the cart line at commit time.
// UnitCost is retained for margin reporting.
type SaleLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID          `db:"product_id" json:"productId"`
	ProductName string         `db:"product_name" json:"productName"`
	Unit        product.Unit   `db:"unit" json:"unit"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice   types.Money    `db:"unit_price" json:"unitPrice"`
	UnitCost    types.Money    `db:"unit_cost" json:"unitCost"`
	LineTotal   types.Money    `db:"line_total" json:"lineTotal"`
}

// SalePayment is one tendered payment, frozen at commit time.
type SalePayment struct {
	PaymentID id.ID `db:"payment_id" json:"paymentId"`
	PaymentNo int   `db:"payment_no" json:"paymentNo"`

	Method    PaymentMethod `db:"method" json:"method"`
	Amount    types.Money   `db:"amount" json:"amount"`
	FeeAmount types.Money   `db:"fee_amount" json:"feeAmount"`
}

// NewSale creates a pending sale from ledger snapshots.
func NewSale(cart *Cart, ledger *PaymentLedger, customerID *id.ID, discount types.Money) *Sale {
	s := &Sale{
		Document:   entity.NewDocument(),
		CustomerID: customerID,
		Status:     StatusPending,
		Total:      cart.Total().Sub(discount),
		Discount:   discount,
		TotalFees:  ledger.TotalFees(),
	}

	for i, l := range cart.Lines() {
		s.Lines = append(s.Lines, SaleLine{
			LineID:      id.New(),
			LineNo:      i + 1,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			UnitCost:    l.UnitCost,
			LineTotal:   l.LineTotal,
		})
	}

	for i, p := range ledger.Payments() {
		s.Payments = append(s.Payments, SalePayment{
			PaymentID: id.New(),
			PaymentNo: i + 1,
			Method:    p.Method,
			Amount:    p.Amount,
			FeeAmount: p.FeeAmount,
		})
	}

	return s
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if len(s.Lines) == 0 {
		return apperror.NewEmptyCart()
	}

	for i, line := range s.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Unit == product.UnitPiece && !line.Quantity.IsWhole() {
			return apperror.NewValidation("piece goods are sold in whole units").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1).
				WithDetail("quantity", line.Quantity.String())
		}
		if !line.LineTotal.Equal(line.UnitPrice.Mul(line.Quantity.Decimal())) {
			return apperror.NewValidation("line total does not match unit price and quantity").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	for i, p := range s.Payments {
		if !IsValidMethod(p.Method) {
			return apperror.NewValidation("unknown payment method").
				WithDetail("field", "payments").
				WithDetail("paymentNo", i+1)
		}
		if !p.Amount.IsPositive() {
			return apperror.NewValidation("payment amount must be positive").
				WithDetail("field", "payments").
				WithDetail("paymentNo", i+1)
		}
	}

	if s.Discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount")
	}

	return nil
}

// IsCancellable reports whether the sale can still be cancelled.
func (s *Sale) IsCancellable() bool {
	return s.Status == StatusCompleted
}
