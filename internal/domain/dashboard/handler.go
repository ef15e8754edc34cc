package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/renalreg/registry/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, shield *auth.Shield) {
	api.GET("/dashboard", h.Stats, auth.Require(shield, "dashboard"))
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to collect dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}
