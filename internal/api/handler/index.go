package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type endpointGroup struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// IndexHandler serves the unauthenticated discovery routes.
type IndexHandler struct {
	version string
}

func NewIndexHandler(version string) *IndexHandler {
	return &IndexHandler{version: version}
}

// Root handles GET / and lists the endpoint groups.
//
// @Summary      Endpoint index
// @Tags         meta
// @Produce      json
// @Success      200  {object}  endpointGroup
// @Router       / [get]
func (h *IndexHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, endpointGroup{
		Message: "Users API",
		Version: h.version,
		Endpoints: map[string]string{
			"health":  "/health",
			"ready":   "/health/ready",
			"api":     "/api",
			"auth":    "/auth",
			"users":   "/users",
			"metrics": "/metrics",
			"docs":    "/swagger/index.html",
		},
	})
}

// Status handles GET /api.
//
// @Summary      API status
// @Tags         meta
// @Produce      json
// @Success      200  {object}  statusResponse
// @Router       /api [get]
func (h *IndexHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Status: "ok", Message: "API is running"})
}
