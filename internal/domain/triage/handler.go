package triage

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/claracare/api/internal/platform/apperr"
	"github.com/claracare/api/internal/platform/auth"
)

const defaultRecentLimit = 10

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/interactions", h.ListInteractions)
	// static segment must be registered before the wildcard; the :id segment
	// is a patient id on the list route and an interaction id on /reviews
	api.GET("/interactions/recent", h.ListRecentInteractions)
	api.GET("/interactions/:id", h.ListPatientInteractions)
	api.GET("/interactions/:id/reviews", h.ListReviews)
	api.POST("/interactions", h.CreateInteraction)
	api.POST("/reviews", h.CreateReview)
}

func (h *Handler) CreateInteraction(c echo.Context) error {
	var in Interaction
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.svc.CreateInteraction(c.Request().Context(), &in); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, in)
}

func (h *Handler) ListInteractions(c echo.Context) error {
	items, err := h.svc.ListWithDetails(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListRecentInteractions(c echo.Context) error {
	limit := defaultRecentLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return apperr.Validation("invalid limit: %s", v)
		}
		limit = n
	}
	items, err := h.svc.ListRecentWithDetails(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListPatientInteractions(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid patient id")
	}
	items, err := h.svc.ListByPatientWithDetails(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateReview(c echo.Context) error {
	var rv Review
	if err := c.Bind(&rv); err != nil {
		return apperr.Validation("invalid request body")
	}
	// The acting provider is whoever authenticated, never the body.
	rv.ProviderName = auth.ProviderNameFromContext(c.Request().Context())
	if err := h.svc.CreateReview(c.Request().Context(), &rv); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rv)
}

func (h *Handler) ListReviews(c echo.Context) error {
	interactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid id")
	}
	items, err := h.svc.ListReviews(c.Request().Context(), interactionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
