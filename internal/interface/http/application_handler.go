package http

import (
	"context"
	"errors"
	"net/http"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/usecase"
	"tourism-cert-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

// applicationReader is the slice of the application repository the read
// endpoint needs.
type applicationReader interface {
	FindByID(ctx context.Context, id string) (*entity.Application, error)
}

// ApplicationHandler exposes the application lifecycle over HTTP.
type ApplicationHandler struct {
	transitions *usecase.TransitionManager
	apps        applicationReader
	logger      logger.Logger
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(transitions *usecase.TransitionManager, apps applicationReader, logger logger.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		transitions: transitions,
		apps:        apps,
		logger:      logger,
	}
}

type transitionRequest struct {
	Status  string `json:"status"`
	ActorID string `json:"actorId"`
	Remarks string `json:"remarks"`
	// Optional idempotency key for approvals. Clients retrying a timed-out
	// approval resend the same key so the certificate is issued once.
	ApprovalEventID string `json:"approvalEventId"`
}

// Transition handles POST /api/applications/:id/transition
func (h *ApplicationHandler) Transition(c echo.Context) error {
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Status == "" || req.ActorID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status and actorId are required"})
	}

	app, err := h.transitions.Transition(c.Request().Context(), c.Param("id"), req.Status, req.ActorID, req.Remarks, req.ApprovalEventID)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrApplicationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, entity.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, entity.ErrAllocationConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			h.logger.Error("Transition failed", "applicationId", c.Param("id"), "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, app)
}

// Get handles GET /api/applications/:id
func (h *ApplicationHandler) Get(c echo.Context) error {
	app, err := h.apps.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrApplicationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Application fetch failed", "applicationId", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, app)
}
