package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/stats", h.GetStats)
	api.GET("/stats/badges", h.GetBadges)
	api.GET("/analytics", h.GetAnalytics)
	api.GET("/patients", h.ListPatients)
}

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetBadges(c echo.Context) error {
	badges, err := h.svc.Badges(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, badges)
}

func (h *Handler) GetAnalytics(c echo.Context) error {
	analytics, err := h.svc.Analytics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analytics)
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.svc.ListPatients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}
