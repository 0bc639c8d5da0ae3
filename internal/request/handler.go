package request

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

// Create handles POST /api/requests (public).
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, httperr.Validation("Invalid request"))
	}

	result, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// List handles GET /api/requests?status= (admin-only).
func (h *Handler) List(c echo.Context) error {
	requests, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// Get handles GET /api/requests/:id (admin-only).
func (h *Handler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httperr.JSON(c, httperr.NotFound("Request not found"))
	}

	req, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, req)
}

// Close handles PATCH /api/requests/:id/close (admin-only).
func (h *Handler) Close(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httperr.JSON(c, httperr.NotFound("Request not found"))
	}

	req, err := h.service.Close(c.Request().Context(), id)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, req)
}
