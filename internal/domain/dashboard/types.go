// Package dashboard provides the summary figures shown on the main screen:
// sales totals, average ticket, top products, and low-stock alerts.
package dashboard

import (
	"time"

	"caixa/internal/core/id"
	"caixa/internal/core/types"
)

// SalesSummary aggregates completed sales over a period.
type SalesSummary struct {
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	SaleCount     int64       `json:"saleCount"`
	GrossTotal    types.Money `json:"grossTotal"`
	TotalFees     types.Money `json:"totalFees"`
	TotalDiscount types.Money `json:"totalDiscount"`

	// AverageTicket is GrossTotal / SaleCount (zero when no sales)
	AverageTicket types.Money `json:"averageTicket"`

	// ByMethod breaks down tendered amounts per payment method
	ByMethod []MethodSummary `json:"byMethod"`
}

// MethodSummary is the tendered amount for one payment method.
type MethodSummary struct {
	Method string      `json:"method"`
	Count  int64       `json:"count"`
	Amount types.Money `json:"amount"`
}

// TopProduct is one row of the best-sellers list.
type TopProduct struct {
	ProductID   id.ID          `json:"productId"`
	ProductName string         `json:"productName"`
	Quantity    types.Quantity `json:"quantity"`
	Revenue     types.Money    `json:"revenue"`
}

// LowStockItem is one product at or below its alert threshold.
type LowStockItem struct {
	ProductID   id.ID          `json:"productId"`
	ProductName string         `json:"productName"`
	Stock       types.Quantity `json:"stock"`
	MinStock    types.Quantity `json:"minStock"`
}

// DailyPoint is one day of the sales series.
type DailyPoint struct {
	Date      time.Time   `json:"date"`
	SaleCount int64       `json:"saleCount"`
	Total     types.Money `json:"total"`
}

// Overview is the full dashboard payload.
type Overview struct {
	Today       SalesSummary   `json:"today"`
	Month       SalesSummary   `json:"month"`
	TopProducts []TopProduct   `json:"topProducts"`
	LowStock    []LowStockItem `json:"lowStock"`
	DailySeries []DailyPoint   `json:"dailySeries"`
}
