package escalation

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/claracare/api/internal/platform/apperr"
	"github.com/claracare/api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/escalations", h.ListEscalations)
	api.PATCH("/escalations/:id", h.UpdateEscalation)
	api.POST("/messages", h.CreateMessage)
	api.POST("/messages/:id/read", h.MarkMessageRead)
}

func (h *Handler) ListEscalations(c echo.Context) error {
	items, err := h.svc.ListWithDetails(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateEscalation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid id")
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid request body")
	}
	e, err := h.svc.UpdateEscalation(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) CreateMessage(c echo.Context) error {
	var m Message
	if err := c.Bind(&m); err != nil {
		return apperr.Validation("invalid request body")
	}
	if m.SenderID == "" && m.SenderType == SenderProvider {
		m.SenderID = auth.ProviderIDFromContext(c.Request().Context())
	}
	if err := h.svc.CreateMessage(c.Request().Context(), &m); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) MarkMessageRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid id")
	}
	if err := h.svc.MarkMessageRead(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
