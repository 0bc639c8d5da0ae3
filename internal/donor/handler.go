package donor

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bloodlink/internal/httperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /api/donors (public).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, httperr.Validation("Invalid request"))
	}

	d, err := h.service.Register(c.Request().Context(), req)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// Search handles GET /api/donors (public), used by the find-donor page and
// the admin console alike.
func (h *Handler) Search(c echo.Context) error {
	filter := SearchFilter{
		BloodGroup:   c.QueryParam("bloodGroup"),
		City:         c.QueryParam("city"),
		OnlyVerified: c.QueryParam("onlyVerified") == "true",
	}

	donors, err := h.service.Search(c.Request().Context(), filter)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, donors)
}

// ListAll handles GET /api/donors/admin (admin-only).
func (h *Handler) ListAll(c echo.Context) error {
	donors, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, donors)
}

// Verify handles PATCH /api/donors/:id/verify (admin-only).
func (h *Handler) Verify(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httperr.JSON(c, httperr.NotFound("Donor not found"))
	}

	d, err := h.service.Verify(c.Request().Context(), id)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// SetAvailability handles PATCH /api/donors/:id/availability (admin-only).
func (h *Handler) SetAvailability(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httperr.JSON(c, httperr.NotFound("Donor not found"))
	}

	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, httperr.Validation("Invalid request"))
	}

	d, err := h.service.SetAvailability(c.Request().Context(), id, req.Availability)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, d)
}
