package dto

import (
	"time"

	"caixa/internal/core/id"
	"caixa/internal/core/types"
	"caixa/internal/domain/finance"
)

// CreateBillRequest registers a payable or receivable.
type CreateBillRequest struct {
	Type        string      `json:"type" binding:"required"`
	Description string      `json:"description" binding:"required"`
	CustomerID  *string     `json:"customerId"`
	Amount      types.Money `json:"amount"`
	DueDate     time.Time   `json:"dueDate" binding:"required"`
	Notes       string      `json:"notes"`
}

// ToEntity converts request to domain entity. CustomerID is parsed by the
// handler (invalid IDs must fail before the entity is built).
func (r CreateBillRequest) ToEntity(customerID *id.ID) *finance.Bill {
	b := finance.NewBill(finance.BillType(r.Type), r.Description, r.Amount, r.DueDate)
	b.CustomerID = customerID
	b.Notes = r.Notes
	return b
}

// BillPaymentRequest applies a payment to a bill.
type BillPaymentRequest struct {
	Amount types.Money `json:"amount"`
}

// BillResponse contains bill fields.
type BillResponse struct {
	DocumentResponse
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Description string      `json:"description"`
	CustomerID  *string     `json:"customerId,omitempty"`
	Amount      types.Money `json:"amount"`
	PaidAmount  types.Money `json:"paidAmount"`
	Remaining   types.Money `json:"remaining"`
	DueDate     time.Time   `json:"dueDate"`
	Overdue     bool        `json:"overdue"`
}

// FromBill creates BillResponse from domain entity.
func FromBill(b *finance.Bill) BillResponse {
	resp := BillResponse{
		DocumentResponse: FromDocument(b.Document),
		Type:             string(b.Type),
		Status:           string(b.Status),
		Description:      b.Description,
		Amount:           b.Amount,
		PaidAmount:       b.PaidAmount,
		Remaining:        b.Remaining(),
		DueDate:          b.DueDate,
		Overdue:          b.IsOverdue(time.Now()),
	}
	if b.CustomerID != nil {
		cid := b.CustomerID.String()
		resp.CustomerID = &cid
	}
	return resp
}

// FromBills maps a slice of bills.
func FromBills(items []*finance.Bill) []BillResponse {
	out := make([]BillResponse, 0, len(items))
	for _, b := range items {
		out = append(out, FromBill(b))
	}
	return out
}
