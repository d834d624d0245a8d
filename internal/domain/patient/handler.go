package patient

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

// RegisterRoutes wires the patient and child endpoints. The enriched patient
// list (GET /api/patients) is owned by the dashboard handler.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.POST("/children", h.CreateChild)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.svc.CreatePatient(c.Request().Context(), &p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NotFound("patient not found")
	}
	p, err := h.svc.GetPatientWithChildren(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateChild(c echo.Context) error {
	var child Child
	if err := c.Bind(&child); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.svc.CreateChild(c.Request().Context(), &child); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, child)
}
