package calculator

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/renalreg/registry/internal/platform/auth"
)

// Handler exposes the bedside formulas as a small read-only API so front
// ends do not reimplement them.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(api *echo.Group, shield *auth.Shield) {
	g := api.Group("/calculators", auth.Require(shield, "calculators"))
	g.POST("/egfr", h.EGFR)
	g.POST("/bsa", h.BSA)
	g.POST("/bmi", h.BMI)
}

type egfrRequest struct {
	HeightCM       float64 `json:"heightCm"`
	CreatinineMgDL float64 `json:"creatinineMgDl"`
}

type egfrResponse struct {
	EGFR     float64 `json:"egfr"`
	CKDStage int     `json:"ckdStage"`
}

func (h *Handler) EGFR(c echo.Context) error {
	var req egfrRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	egfr, err := EGFRBedsideSchwartz(req.HeightCM, req.CreatinineMgDL)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, egfrResponse{EGFR: egfr, CKDStage: CKDStageFromEGFR(egfr)})
}

type bsaRequest struct {
	HeightCM float64 `json:"heightCm"`
	WeightKG float64 `json:"weightKg"`
}

func (h *Handler) BSA(c echo.Context) error {
	var req bsaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	bsa, err := BSAMosteller(req.HeightCM, req.WeightKG)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]float64{"bsa": bsa})
}

func (h *Handler) BMI(c echo.Context) error {
	var req bsaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	bmi, err := BMI(req.WeightKG, req.HeightCM)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]float64{"bmi": bmi})
}
