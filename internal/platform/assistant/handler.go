package assistant

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/claracare/api/internal/platform/apperr"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/clara/chat", h.Chat)
}

func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Message == "" {
		return apperr.Validation("message is required")
	}
	reply, err := h.client.Reply(c.Request().Context(), req.Message)
	if err != nil {
		return apperr.Persistence("assistant unavailable", err)
	}
	return c.JSON(http.StatusOK, chatResponse{Reply: reply})
}
