package auth

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

// Login handles POST /api/auth/login and POST /api/auth/admin/login.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, httperr.Validation("Invalid request"))
	}

	token, user, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		return httperr.JSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user.Summary(),
	})
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, httperr.Validation("Invalid request"))
	}

	user, err := h.service.RegisterAdmin(c.Request().Context(), req)
	if err != nil {
		return httperr.JSON(c, err)
	}

	summary := user.Summary()
	summary.Role = ""
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Admin user created",
		"user":    summary,
	})
}
