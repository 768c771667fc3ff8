package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"caixa/internal/core/apperror"
	"caixa/internal/core/id"
	"caixa/internal/domain/stock"
	"caixa/internal/infrastructure/http/v1/dto"
	"caixa/internal/infrastructure/storage/postgres"
	"caixa/pkg/logger"
)

// StockHandler handles stock movement endpoints.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
	audit   *postgres.AuditService
}

// NewStockHandler creates a new stock handler. audit may be nil.
func NewStockHandler(base *BaseHandler, service *stock.Service, audit *postgres.AuditService) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
		audit:       audit,
	}
}

// RecordMovement handles POST /stock/movements - manual stock adjustment.
func (h *StockHandler) RecordMovement(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id"))
		return
	}

	movement, err := h.service.RecordManual(ctx, stock.ManualMovementInput{
		ProductID: productID,
		Type:      stock.MovementType(req.Type),
		Quantity:  req.Quantity,
		Reason:    stock.Reason(req.Reason),
		Notes:     req.Notes,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		auditErr := h.audit.LogChange(ctx, "stock_movement", movement.ID, postgres.AuditActionCreate, map[string]any{
			"number":   movement.Number,
			"type":     string(movement.Type),
			"reason":   string(movement.Reason),
			"quantity": movement.Quantity.String(),
		})
		if auditErr != nil {
			logger.Warn(ctx, "audit log failed", "movement_id", movement.ID, "error", auditErr)
		}
	}

	response := dto.FromMovement(*movement)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// List handles GET /stock/movements - movements across all products.
func (h *StockHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	movements, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromMovements(movements)})
}

// GetHistory handles GET /stock/movements/:productId - per-product history.
func (h *StockHandler) GetHistory(c *gin.Context) {
	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	movements, err := h.service.GetHistory(c.Request.Context(), productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromMovements(movements)})
}

func (h *StockHandler) parseFilter(c *gin.Context) (stock.MovementFilter, bool) {
	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if t := c.Query("type"); t != "" {
		mt := stock.MovementType(t)
		filter.Type = &mt
	}
	if r := c.Query("reason"); r != "" {
		reason := stock.Reason(r)
		filter.Reason = &reason
	}

	for _, q := range []struct {
		key  string
		dest **time.Time
	}{
		{"fromDate", &filter.FromDate},
		{"toDate", &filter.ToDate},
	} {
		val := c.Query(q.key)
		if val == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			t, err = time.Parse("2006-01-02", val)
			if err != nil {
				h.Error(c, apperror.NewValidation("invalid date format").WithDetail("param", q.key))
				return filter, false
			}
		}
		*q.dest = &t
	}

	return filter, true
}
