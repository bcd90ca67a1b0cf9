package http

import (
	"errors"
	"net/http"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/usecase"
	"tourism-cert-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TicketHandler exposes ticket display-status queries and scan recording.
type TicketHandler struct {
	tickets *usecase.TicketQuery
	logger  logger.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(tickets *usecase.TicketQuery, logger logger.Logger) *TicketHandler {
	return &TicketHandler{
		tickets: tickets,
		logger:  logger,
	}
}

// List handles GET /api/tickets
func (h *TicketHandler) List(c echo.Context) error {
	views, err := h.tickets.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Ticket listing failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, views)
}

// Status handles GET /api/tickets/:id/status
func (h *TicketHandler) Status(c echo.Context) error {
	status, err := h.tickets.Status(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Ticket status failed", "ticketId", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"displayStatus": status})
}

type scanRequest struct {
	EventStatus string `json:"eventStatus"`
}

// Scan handles POST /api/tickets/:id/scan
func (h *TicketHandler) Scan(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.EventStatus == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventStatus is required"})
	}

	ticket, err := h.tickets.RecordScan(c.Request().Context(), c.Param("id"), req.EventStatus)
	if err != nil {
		if errors.Is(err, entity.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Scan recording failed", "ticketId", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, ticket)
}

// RegisterRoutes wires the API routes onto the echo instance.
func RegisterRoutes(e *echo.Echo, apps *ApplicationHandler, tickets *TicketHandler) {
	api := e.Group("/api")

	api.POST("/applications/:id/transition", apps.Transition)
	api.GET("/applications/:id", apps.Get)

	api.GET("/tickets", tickets.List)
	api.GET("/tickets/:id/status", tickets.Status)
	api.POST("/tickets/:id/scan", tickets.Scan)
}
