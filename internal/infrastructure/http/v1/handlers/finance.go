package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"caixa/internal/core/apperror"
	"caixa/internal/core/id"
	"caixa/internal/domain/finance"
	"caixa/internal/infrastructure/http/v1/dto"
)

// FinanceHandler handles bill (payable/receivable) endpoints.
type FinanceHandler struct {
	*BaseHandler
	service *finance.Service
}

// NewFinanceHandler creates a new finance handler.
func NewFinanceHandler(base *BaseHandler, service *finance.Service) *FinanceHandler {
	return &FinanceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /bills - register a payable or receivable.
func (h *FinanceHandler) Create(c *gin.Context) {
	var req dto.CreateBillRequest
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

	bill := req.ToEntity(customerID)
	if err := h.service.Create(c.Request.Context(), bill); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromBill(bill)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Get handles GET /bills/:id.
func (h *FinanceHandler) Get(c *gin.Context) {
	billID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	bill, err := h.service.GetByID(c.Request.Context(), billID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBill(bill))
}

// List handles GET /bills with filtering.
func (h *FinanceHandler) List(c *gin.Context) {
	filter := finance.ListFilter{
		Limit:       h.ParseIntQuery(c, "limit", 50),
		Offset:      h.ParseIntQuery(c, "offset", 0),
		OverdueOnly: c.Query("overdue") == "true",
	}

	if t := c.Query("type"); t != "" {
		billType := finance.BillType(t)
		filter.Type = &billType
	}
	if s := c.Query("status"); s != "" {
		status := finance.BillStatus(s)
		filter.Status = &status
	}
	if customerStr := c.Query("customerId"); customerStr != "" {
		customerID, err := id.Parse(customerStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId format"))
			return
		}
		filter.CustomerID = &customerID
	}
	if due := c.Query("dueBefore"); due != "" {
		t, err := time.Parse("2006-01-02", due)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date format").WithDetail("param", "dueBefore"))
			return
		}
		filter.DueBefore = &t
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      dto.FromBills(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RecordPayment handles POST /bills/:id/payments.
func (h *FinanceHandler) RecordPayment(c *gin.Context) {
	billID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.BillPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	bill, err := h.service.RecordPayment(c.Request.Context(), billID, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromBill(bill)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// Void handles POST /bills/:id/void - cancel an unsettled bill.
func (h *FinanceHandler) Void(c *gin.Context) {
	billID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Void(c.Request.Context(), billID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "bill voided")
}
