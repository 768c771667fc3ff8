package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"caixa/internal/core/apperror"
	"caixa/internal/domain/dashboard"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	*BaseHandler
	service *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *BaseHandler, service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetOverview handles GET /dashboard - the main screen payload.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.service.GetOverview(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetSummary handles GET /dashboard/summary - sales summary for a period.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	from, ok := h.parseDate(c, "fromDate")
	if !ok {
		return
	}
	to, ok := h.parseDate(c, "toDate")
	if !ok {
		return
	}
	if from.IsZero() || to.IsZero() {
		h.Error(c, apperror.NewValidation("fromDate and toDate are required"))
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) parseDate(c *gin.Context, key string) (time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		t, err = time.Parse("2006-01-02", val)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date format").WithDetail("param", key))
			return time.Time{}, false
		}
	}
	return t, true
}
