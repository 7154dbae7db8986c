package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chemedu/periodic-table-api/internal/api/metrics"
	"github.com/chemedu/periodic-table-api/internal/core/domain"
	"github.com/chemedu/periodic-table-api/internal/core/ports"
)

// ElementHandler handles HTTP requests for periodic table entries.
type ElementHandler struct {
	service ports.ElementService
}

func NewElementHandler(service ports.ElementService) *ElementHandler {
	return &ElementHandler{service: service}
}

type createElementRequest struct {
	Symbol string `json:"symbol" validate:"required,alpha,max=10"`
	Name   string `json:"name" validate:"required,max=50"`
	Number int    `json:"number" validate:"required,gte=1,lte=118"`
	Info   string `json:"info" validate:"omitempty,max=500"`
}

type updateElementRequest struct {
	Symbol *string `json:"symbol" validate:"omitempty,alpha,max=10"`
	Name   *string `json:"name" validate:"omitempty,max=50"`
	Number *int    `json:"number" validate:"omitempty,gte=1,lte=118"`
	Info   *string `json:"info" validate:"omitempty,max=500"`
}

type deleteElementResponse struct {
	Message string `json:"message"`
	Symbol  string `json:"symbol"`
}

// List handles GET /v1/elements.
//
// @Summary      List all elements
// @Tags         elements
// @Produce      json
// @Success      200  {array}   domain.Element
// @Failure      500  {object}  map[string]string
// @Router       /v1/elements [get]
func (h *ElementHandler) List(c echo.Context) error {
	elements, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if elements == nil {
		elements = []domain.Element{}
	}
	return c.JSON(http.StatusOK, elements)
}

// Get handles GET /v1/elements/:symbol. Symbol matching is case-insensitive.
//
// @Summary      Get an element by symbol
// @Tags         elements
// @Produce      json
// @Param        symbol  path      string  true  "Chemical symbol (e.g. He)"
// @Success      200     {object}  domain.Element
// @Failure      404     {object}  map[string]string
// @Router       /v1/elements/{symbol} [get]
func (h *ElementHandler) Get(c echo.Context) error {
	element, err := h.service.GetBySymbol(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, element)
}

// Create handles POST /v1/elements (admin only).
//
// @Summary      Create a new element
// @Tags         elements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createElementRequest  true  "Element details"
// @Success      201   {object}  domain.Element
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/elements [post]
func (h *ElementHandler) Create(c echo.Context) error {
	var req createElementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, _ := c.Get("username").(string)
	created, err := h.service.Create(c.Request().Context(), actor, ports.CreateElementInput{
		Symbol: req.Symbol,
		Name:   req.Name,
		Number: req.Number,
		Info:   req.Info,
	})
	if err != nil {
		return err
	}

	metrics.ElementMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /v1/elements/:symbol (admin only). Absent fields keep
// their current value.
//
// @Summary      Update an element
// @Tags         elements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        symbol  path      string                true  "Chemical symbol"
// @Param        body    body      updateElementRequest  true  "Fields to change"
// @Success      200     {object}  domain.Element
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /v1/elements/{symbol} [put]
func (h *ElementHandler) Update(c echo.Context) error {
	var req updateElementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, _ := c.Get("username").(string)
	updated, err := h.service.Update(c.Request().Context(), actor, c.Param("symbol"), ports.UpdateElementInput{
		Symbol: req.Symbol,
		Name:   req.Name,
		Number: req.Number,
		Info:   req.Info,
	})
	if err != nil {
		return err
	}

	metrics.ElementMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/elements/:symbol (admin only).
//
// @Summary      Delete an element
// @Tags         elements
// @Produce      json
// @Security     BearerAuth
// @Param        symbol  path      string  true  "Chemical symbol"
// @Success      200     {object}  deleteElementResponse
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /v1/elements/{symbol} [delete]
func (h *ElementHandler) Delete(c echo.Context) error {
	symbol := c.Param("symbol")
	actor, _ := c.Get("username").(string)

	if err := h.service.Delete(c.Request().Context(), actor, symbol); err != nil {
		if errors.Is(err, domain.ErrElementNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "element not found")
		}
		return err
	}

	metrics.ElementMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, deleteElementResponse{
		Message: "element deleted",
		Symbol:  domain.NormalizeSymbol(symbol),
	})
}
