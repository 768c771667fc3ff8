package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"caixa/internal/core/apperror"
	"caixa/internal/core/id"
	"caixa/internal/domain/catalog/product"
	"caixa/internal/domain/promotion"
	"caixa/internal/domain/sales"
	"caixa/internal/infrastructure/http/v1/dto"
	"caixa/internal/infrastructure/storage/postgres"
	"caixa/pkg/logger"
)

// SaleHandler handles checkout and sale endpoints.
type SaleHandler struct {
	*BaseHandler
	coordinator *sales.Coordinator
	service     *sales.Service
	products    *product.Service
	promotions  *promotion.Engine
	audit       *postgres.AuditService
}

// NewSaleHandler creates a new sale handler. promotions and audit may be nil.
func NewSaleHandler(
	base *BaseHandler,
	coordinator *sales.Coordinator,
	service *sales.Service,
	products *product.Service,
	promotions *promotion.Engine,
	audit *postgres.AuditService,
) *SaleHandler {
	return &SaleHandler{
		BaseHandler: base,
		coordinator: coordinator,
		service:     service,
		products:    products,
		promotions:  promotions,
		audit:       audit,
	}
}

// buildCart rebuilds the cart ledger from request lines, pricing each line
// from the current catalog.
func (h *SaleHandler) buildCart(c *gin.Context, lines []dto.CheckoutLineRequest) (*sales.Cart, bool) {
	ctx := c.Request.Context()
	cart := sales.NewCart()

	for i, line := range lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid product id").
				WithDetail("lineNo", i+1).
				WithDetail("productId", line.ProductID))
			return nil, false
		}

		p, err := h.products.GetByID(ctx, productID)
		if err != nil {
			h.Error(c, err)
			return nil, false
		}

		if !p.Active || p.DeletionMark {
			h.Error(c, apperror.NewValidation("product is not sellable").
				WithDetail("productId", line.ProductID).
				WithDetail("name", p.Name))
			return nil, false
		}

		if line.Quantity.IsNegative() {
			h.Error(c, apperror.NewValidation("quantity must be positive").
				WithDetail("lineNo", i+1))
			return nil, false
		}

		if p.IsWeighed() {
			// Weighed goods need an explicit quantity from the scale.
			if line.Quantity.IsZero() {
				h.Error(c, apperror.NewValidation("quantity is required for weighed goods").
					WithDetail("lineNo", i+1).
					WithDetail("productId", line.ProductID))
				return nil, false
			}
		} else if !line.Quantity.IsWhole() {
			h.Error(c, apperror.NewValidation("piece goods are sold in whole units").
				WithDetail("lineNo", i+1).
				WithDetail("quantity", line.Quantity.String()))
			return nil, false
		}

		// An omitted quantity on piece goods adds one unit.
		cart.AddOrIncrement(p, line.Quantity)
	}

	return cart, true
}

// Quote handles POST /sales/quote - preview totals and promotions before
// tendering payments.
func (h *SaleHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cart, ok := h.buildCart(c, req.Lines)
	if !ok {
		return
	}

	var applied *promotion.Applied
	if h.promotions != nil && !cart.IsEmpty() {
		_, applied = h.promotions.Evaluate(c.Request.Context(), promotion.CartSummary{
			Total:     cart.Total(),
			ItemCount: cart.ItemCount(),
			Method:    req.Method,
		})
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(cart.Total(), cart.ItemCount(), applied))
}

// Checkout handles POST /sales/checkout - commit a sale.
func (h *SaleHandler) Checkout(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var customerID *id.ID
	if req.CustomerID != nil && *req.CustomerID != "" {
		parsed, err := id.Parse(*req.CustomerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customer id"))
			return
		}
		customerID = &parsed
	}

	cart, ok := h.buildCart(c, req.Lines)
	if !ok {
		return
	}

	ledger := sales.NewPaymentLedger()
	for _, p := range req.Payments {
		if err := ledger.AddPayment(sales.PaymentMethod(p.Method), p.Amount); err != nil {
			h.Error(c, err)
			return
		}
	}

	sale, err := h.coordinator.Checkout(ctx, sales.CheckoutInput{
		Cart:       cart,
		Payments:   ledger,
		CustomerID: customerID,
		Discount:   req.Discount,
		Notes:      req.Notes,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.logAudit(c, sale, postgres.AuditActionCommit)

	response := dto.FromSale(sale)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Get handles GET /sales/:id - full sale with lines and payments.
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSale(sale))
}

// GetByNumber handles GET /sales/number/:number - receipt lookup.
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.Error(c, apperror.NewValidation("number is required"))
		return
	}

	sale, err := h.service.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSale(sale))
}

// List handles GET /sales - sale headers with filtering.
func (h *SaleHandler) List(c *gin.Context) {
	filter := sales.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	if status := c.Query("status"); status != "" {
		s := sales.Status(status)
		filter.Status = &s
	}

	if customerStr := c.Query("customerId"); customerStr != "" {
		customerID, err := id.Parse(customerStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId format"))
			return
		}
		filter.CustomerID = &customerID
	}

	if from, ok := h.parseTimeQuery(c, "fromDate"); !ok {
		return
	} else if from != nil {
		filter.FromDate = from
	}
	if to, ok := h.parseTimeQuery(c, "toDate"); !ok {
		return
	} else if to != nil {
		filter.ToDate = to
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      dto.FromSales(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Cancel handles POST /sales/:id/cancel - reverse a completed sale.
func (h *SaleHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Cancel(ctx, saleID); err != nil {
		h.Error(c, err)
		return
	}

	sale, err := h.service.GetByID(ctx, saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.logAudit(c, sale, postgres.AuditActionCancel)

	response := dto.FromSale(sale)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

func (h *SaleHandler) logAudit(c *gin.Context, sale *sales.Sale, action postgres.AuditAction) {
	if h.audit == nil {
		return
	}
	err := h.audit.LogChange(c.Request.Context(), "sale", sale.ID, action, map[string]any{
		"number": sale.Number,
		"status": string(sale.Status),
		"total":  sale.Total.String(),
	})
	if err != nil {
		logger.Warn(c.Request.Context(), "audit log failed", "sale_id", sale.ID, "error", err)
	}
}

func (h *SaleHandler) parseTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		// Accept plain dates too
		t, err = time.Parse("2006-01-02", val)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date format").
				WithDetail("param", key))
			return nil, false
		}
	}
	return &t, true
}
