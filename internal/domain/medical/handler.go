package medical

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/claracare/api/internal/platform/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/children/:id/medical", h.GetChildMedicalData)
}

func (h *Handler) GetChildMedicalData(c echo.Context) error {
	childID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid id")
	}
	data, err := h.svc.GetChildMedicalData(c.Request().Context(), childID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}
