// Package stock provides the stock movement register: an append-only audit
// trail of every quantity change applied to a product's on-hand stock.
package stock

import (
	"context"
	"time"

	"caixa/internal/core/apperror"
	"caixa/internal/core/id"
	"caixa/internal/core/types"
)

// MovementType defines the direction of a stock change.
type MovementType string

const (
	TypeIn  MovementType = "in"
	TypeOut MovementType = "out"
)

// Reason explains why stock changed.
type Reason string

const (
	ReasonPurchase   Reason = "purchase"
	ReasonSale       Reason = "sale"
	ReasonLoss       Reason = "loss"
	ReasonAdjustment Reason = "adjustment"
	ReasonReturn     Reason = "return"
)

// Movement is one recorded quantity change. Movements are never updated or
// deleted; corrections are recorded as compensating movements.
type Movement struct {
	ID id.ID `db:"id" json:"id"`

	// Number is the human-readable movement number (MOV-...)
	Number string `db:"number" json:"number"`

	ProductID id.ID          `db:"product_id" json:"productId"`
	Type      MovementType   `db:"type" json:"type"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	Reason    Reason         `db:"reason" json:"reason"`

	// SaleID links movements produced by a sale commit or cancellation
	SaleID *id.ID `db:"sale_id" json:"saleId,omitempty"`

	Notes *string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
}

// NewMovement creates a movement record with a fresh ID.
func NewMovement(productID id.ID, mType MovementType, qty types.Quantity, reason Reason) Movement {
	return Movement{
		ID:        id.New(),
		ProductID: productID,
		Type:      mType,
		Quantity:  qty,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks movement invariants.
func (m *Movement) Validate(ctx context.Context) error {
	if id.IsNil(m.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}

	if m.Type != TypeIn && m.Type != TypeOut {
		return apperror.NewValidation("invalid movement type").
			WithDetail("field", "type").
			WithDetail("value", string(m.Type))
	}

	if !m.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	if !isValidReason(m.Reason) {
		return apperror.NewValidation("invalid movement reason").
			WithDetail("field", "reason").
			WithDetail("value", string(m.Reason))
	}

	// Direction must agree with the reason
	switch m.Reason {
	case ReasonPurchase, ReasonReturn:
		if m.Type != TypeIn {
			return apperror.NewValidation("reason requires an inbound movement").
				WithDetail("reason", string(m.Reason))
		}
	case ReasonSale, ReasonLoss:
		if m.Type != TypeOut {
			return apperror.NewValidation("reason requires an outbound movement").
				WithDetail("reason", string(m.Reason))
		}
	}

	return nil
}

func isValidReason(r Reason) bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonLoss, ReasonAdjustment, ReasonReturn:
		return true
	}
	return false
}
