package dto

import (
	"time"

	"caixa/internal/core/types"
	"caixa/internal/domain/stock"
)

// RecordMovementRequest records a manual stock adjustment
// (purchase receipt, loss write-off, inventory correction).
type RecordMovementRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Type      string         `json:"type" binding:"required"`
	Quantity  types.Quantity `json:"quantity"`
	Reason    string         `json:"reason" binding:"required"`
	Notes     *string        `json:"notes"`
}

// MovementResponse is one stock movement.
type MovementResponse struct {
	ID        string         `json:"id"`
	Number    string         `json:"number"`
	ProductID string         `json:"productId"`
	Type      string         `json:"type"`
	Quantity  types.Quantity `json:"quantity"`
	Reason    string         `json:"reason"`
	SaleID    *string        `json:"saleId,omitempty"`
	Notes     *string        `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	CreatedBy string         `json:"createdBy,omitempty"`
}

// FromMovement creates MovementResponse from domain entity.
func FromMovement(m stock.Movement) MovementResponse {
	resp := MovementResponse{
		ID:        m.ID.String(),
		Number:    m.Number,
		ProductID: m.ProductID.String(),
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		Reason:    string(m.Reason),
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
	if m.SaleID != nil {
		sid := m.SaleID.String()
		resp.SaleID = &sid
	}
	return resp
}

// FromMovements maps a slice of movements.
func FromMovements(items []stock.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(items))
	for _, m := range items {
		out = append(out, FromMovement(m))
	}
	return out
}
