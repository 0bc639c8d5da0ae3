package chat

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bloodlink/internal/httperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Message handles POST /api/chat (public).
func (h *Handler) Message(c echo.Context) error {
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, httperr.Validation("Invalid request"))
	}
	if req.Message == "" {
		return httperr.JSON(c, httperr.Validation("Message is required"))
	}

	reply := h.service.Handle(c.Request().Context(), req.SessionID, req.Message)
	return c.JSON(http.StatusOK, reply)
}
