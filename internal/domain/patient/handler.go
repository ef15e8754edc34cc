package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/renalreg/registry/internal/platform/auth"
	"github.com/renalreg/registry/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, shield *auth.Shield) {
	api.GET("/patients", h.List, auth.Require(shield, "patients"))
	api.POST("/patients", h.Create, auth.Require(shield, "createPatient"))
	api.GET("/patients/:id", h.Get, auth.Require(shield, "patient"))
	api.PUT("/patients/:id", h.Update, auth.Require(shield, "updatePatient"))
	api.DELETE("/patients/:id", h.Delete, auth.Require(shield, "deletePatient"))

	api.GET("/patients/:id/followups", h.ListFollowUps, auth.Require(shield, "patientFollowups"))
	api.POST("/patients/:id/followups", h.CreateFollowUp, auth.Require(shield, "createFollowup"))
	api.PUT("/followups/:id", h.UpdateFollowUp, auth.Require(shield, "updateFollowup"))
	api.DELETE("/followups/:id", h.DeleteFollowUp, auth.Require(shield, "deleteFollowup"))

	api.GET("/patients/:id/dialysis", h.ListDialysis, auth.Require(shield, "dialysisRecords"))
	api.POST("/patients/:id/dialysis", h.CreateDialysis, auth.Require(shield, "createDialysisRecord"))
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), auth.FromEcho(c).User, &p); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), auth.FromEcho(c).User, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, total, err := h.svc.List(c.Request().Context(), auth.FromEcho(c).User, pg.Limit, pg.Offset)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.Update(c.Request().Context(), auth.FromEcho(c).User, &p); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), auth.FromEcho(c).User, id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateFollowUp(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var f FollowUp
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f.PatientID = patientID
	if err := h.svc.CreateFollowUp(c.Request().Context(), auth.FromEcho(c).User, &f); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) UpdateFollowUp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var f FollowUp
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f.ID = id
	if err := h.svc.UpdateFollowUp(c.Request().Context(), auth.FromEcho(c).User, &f); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) DeleteFollowUp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteFollowUp(c.Request().Context(), auth.FromEcho(c).User, id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListFollowUps(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	fups, total, err := h.svc.ListFollowUps(c.Request().Context(), auth.FromEcho(c).User, patientID, pg.Limit, pg.Offset)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(fups, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateDialysis(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var d DialysisRecord
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.PatientID = patientID
	if err := h.svc.CreateDialysis(c.Request().Context(), auth.FromEcho(c).User, &d); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) ListDialysis(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	recs, total, err := h.svc.ListDialysis(c.Request().Context(), auth.FromEcho(c).User, patientID, pg.Limit, pg.Offset)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(recs, total, pg.Limit, pg.Offset))
}

func domainError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrFollowUpNotFound), errors.Is(err, ErrDialysisNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEntryNotPermitted), errors.Is(err, ErrViewNotPermitted), errors.Is(err, ErrWrongInstitute):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
