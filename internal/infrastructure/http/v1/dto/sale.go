package dto

import (
	"caixa/internal/core/types"
	"caixa/internal/domain/promotion"
	"caixa/internal/domain/sales"
)

// --- Checkout ---

// CheckoutLineRequest is one cart line to sell.
type CheckoutLineRequest struct {
	ProductID string `json:"productId" binding:"required"`

	// Quantity may be omitted for piece goods; it defaults to one unit.
	// Weighed goods require an explicit quantity. Piece goods accept whole
	// units only.
	Quantity types.Quantity `json:"quantity"`
}

// CheckoutPaymentRequest is one tendered payment.
type CheckoutPaymentRequest struct {
	Method string      `json:"method" binding:"required"`
	Amount types.Money `json:"amount"`
}

// CheckoutRequest commits a sale. Lines and payments arrive together; the
// server rebuilds the ledgers, validates, and commits atomically.
// Discount must match what the quote endpoint returned, because payments
// are checked against saleTotal + fees exactly.
type CheckoutRequest struct {
	CustomerID *string                  `json:"customerId"`
	Lines      []CheckoutLineRequest    `json:"lines"`
	Payments   []CheckoutPaymentRequest `json:"payments"`
	Discount   types.Money              `json:"discount"`
	Notes      string                   `json:"notes"`
}

// QuoteRequest previews totals and promotions before tendering payments.
type QuoteRequest struct {
	Lines []CheckoutLineRequest `json:"lines"`

	// Method is the intended primary payment method, used by
	// method-conditional promotion rules. Optional.
	Method string `json:"method"`
}

// QuoteResponse is the checkout preview.
type QuoteResponse struct {
	CartTotal   types.Money `json:"cartTotal"`
	ItemCount   int         `json:"itemCount"`
	Discount    types.Money `json:"discount"`
	AppliedRule string      `json:"appliedRule,omitempty"`
	SaleTotal   types.Money `json:"saleTotal"`
}

// NewQuoteResponse builds the preview from cart figures and an optional
// matched promotion.
func NewQuoteResponse(cartTotal types.Money, itemCount int, applied *promotion.Applied) QuoteResponse {
	resp := QuoteResponse{
		CartTotal: cartTotal,
		ItemCount: itemCount,
		Discount:  types.Zero(),
		SaleTotal: cartTotal,
	}
	if applied != nil {
		resp.Discount = applied.Discount
		resp.AppliedRule = applied.Name
		resp.SaleTotal = cartTotal.Sub(applied.Discount)
	}
	return resp
}

// --- Sale Responses ---

// SaleLineResponse is one sold line.
type SaleLineResponse struct {
	LineID      string         `json:"lineId"`
	LineNo      int            `json:"lineNo"`
	ProductID   string         `json:"productId"`
	ProductName string         `json:"productName"`
	Unit        string         `json:"unit"`
	Quantity    types.Quantity `json:"quantity"`
	UnitPrice   types.Money    `json:"unitPrice"`
	LineTotal   types.Money    `json:"lineTotal"`
}

// SalePaymentResponse is one tendered payment.
type SalePaymentResponse struct {
	PaymentID string      `json:"paymentId"`
	PaymentNo int         `json:"paymentNo"`
	Method    string      `json:"method"`
	Amount    types.Money `json:"amount"`
	FeeAmount types.Money `json:"feeAmount"`
}

// SaleResponse contains the full sale with table parts.
type SaleResponse struct {
	DocumentResponse
	CustomerID *string               `json:"customerId,omitempty"`
	Status     string                `json:"status"`
	Total      types.Money           `json:"total"`
	Discount   types.Money           `json:"discount"`
	TotalFees  types.Money           `json:"totalFees"`
	Lines      []SaleLineResponse    `json:"lines"`
	Payments   []SalePaymentResponse `json:"payments"`
}

// FromSale creates SaleResponse from domain entity.
func FromSale(s *sales.Sale) SaleResponse {
	resp := SaleResponse{
		DocumentResponse: FromDocument(s.Document),
		Status:           string(s.Status),
		Total:            s.Total,
		Discount:         s.Discount,
		TotalFees:        s.TotalFees,
		Lines:            make([]SaleLineResponse, 0, len(s.Lines)),
		Payments:         make([]SalePaymentResponse, 0, len(s.Payments)),
	}
	if s.CustomerID != nil {
		cid := s.CustomerID.String()
		resp.CustomerID = &cid
	}

	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			LineID:      l.LineID.String(),
			LineNo:      l.LineNo,
			ProductID:   l.ProductID.String(),
			ProductName: l.ProductName,
			Unit:        string(l.Unit),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}

	for _, p := range s.Payments {
		resp.Payments = append(resp.Payments, SalePaymentResponse{
			PaymentID: p.PaymentID.String(),
			PaymentNo: p.PaymentNo,
			Method:    string(p.Method),
			Amount:    p.Amount,
			FeeAmount: p.FeeAmount,
		})
	}

	return resp
}

// FromSales maps a slice of sale headers (no table parts loaded).
func FromSales(items []*sales.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(items))
	for _, s := range items {
		out = append(out, FromSale(s))
	}
	return out
}
