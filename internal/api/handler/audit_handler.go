package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
	"github.com/chemedu/periodic-table-api/internal/core/ports"
)

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /v1/audit (admin only).
//
// @Summary      List recent audit events
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of events (default 50, cap 500)"
// @Success      200    {array}   domain.AuditEvent
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /v1/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	events, err := h.service.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.AuditEvent{}
	}
	return c.JSON(http.StatusOK, events)
}
