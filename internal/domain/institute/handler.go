package institute

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/renalreg/registry/internal/platform/auth"
	"github.com/renalreg/registry/pkg/pagination"
)

// AdminRegistrar creates the first institute-admin account during combined
// registration. Implemented by the user service; declared here to keep the
// dependency one-way.
type AdminRegistrar interface {
	RegisterInstituteAdmin(ctx context.Context, instituteID uuid.UUID, name, email, password string) error
}

type Handler struct {
	svc    *Service
	admins AdminRegistrar
}

func NewHandler(svc *Service, admins AdminRegistrar) *Handler {
	return &Handler{svc: svc, admins: admins}
}

func (h *Handler) RegisterRoutes(api *echo.Group, shield *auth.Shield) {
	api.POST("/institutes/register", h.Register, auth.Require(shield, "registerInstitute"))
	api.POST("/institutes/register-with-admin", h.RegisterWithAdmin, auth.Require(shield, "registerInstituteWithAdmin"))

	api.GET("/institutes", h.List, auth.Require(shield, "institutes"))
	api.GET("/institutes/pending", h.ListPending, auth.Require(shield, "pendingInstitutes"))
	api.GET("/institutes/approved", h.ListApproved, auth.Require(shield, "approvedInstitutes"))
	api.GET("/institutes/:id", h.Get, auth.Require(shield, "institute"))

	api.POST("/institutes/:id/approve", h.Approve, auth.Require(shield, "approveInstitute"))
	api.POST("/institutes/:id/reject", h.Reject, auth.Require(shield, "rejectInstitute"))
	api.POST("/institutes/:id/suspend", h.Suspend, auth.Require(shield, "suspendInstitute"))
	api.POST("/institutes/:id/enable", h.Enable, auth.Require(shield, "enableInstitute"))
	api.POST("/institutes/:id/disable", h.Disable, auth.Require(shield, "disableInstitute"))
}

type registerRequest struct {
	Name          string  `json:"name"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
	ContactNumber *string `json:"contactNumber"`
	Email         string  `json:"email"`
	Website       *string `json:"website"`
}

func (req *registerRequest) toModel() *Institute {
	return &Institute{
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Country:       req.Country,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Website:       req.Website,
	}
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inst := req.toModel()
	if err := h.svc.Register(c.Request().Context(), inst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inst)
}

type registerWithAdminRequest struct {
	registerRequest
	AdminName     string `json:"adminName"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
}

func (h *Handler) RegisterWithAdmin(c echo.Context) error {
	var req registerWithAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.AdminEmail == "" || req.AdminPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "admin email and password are required")
	}

	ctx := c.Request().Context()
	inst := req.toModel()
	if err := h.svc.Register(ctx, inst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.admins.RegisterInstituteAdmin(ctx, inst.ID, req.AdminName, req.AdminEmail, req.AdminPassword); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inst)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inst, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "institute not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, inst)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	insts, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(insts, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListPending(c echo.Context) error {
	pg := pagination.FromContext(c)
	insts, total, err := h.svc.ListPending(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(insts, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListApproved(c echo.Context) error {
	pg := pagination.FromContext(c)
	insts, total, err := h.svc.ListApproved(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(insts, total, pg.Limit, pg.Offset))
}

func (h *Handler) Approve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.FromEcho(c).User
	inst, err := h.svc.Approve(c.Request().Context(), id, actor.ID)
	if err != nil {
		return transitionError(err)
	}
	return c.JSON(http.StatusOK, inst)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Reject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.FromEcho(c).User
	inst, err := h.svc.Reject(c.Request().Context(), id, actor.ID, req.Reason)
	if err != nil {
		if errors.Is(err, ErrReasonRequired) {
			return echo.NewHTTPError(http.StatusBadRequest, ErrReasonRequired.Error())
		}
		return transitionError(err)
	}
	return c.JSON(http.StatusOK, inst)
}

func (h *Handler) Suspend(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.FromEcho(c).User
	inst, err := h.svc.Suspend(c.Request().Context(), id, actor.ID)
	if err != nil {
		return transitionError(err)
	}
	return c.JSON(http.StatusOK, inst)
}

func (h *Handler) Enable(c echo.Context) error {
	return h.transition(c, h.svc.Enable)
}

func (h *Handler) Disable(c echo.Context) error {
	return h.transition(c, h.svc.Disable)
}

func (h *Handler) transition(c echo.Context, fn func(context.Context, uuid.UUID) (*Institute, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inst, err := fn(c.Request().Context(), id)
	if err != nil {
		return transitionError(err)
	}
	return c.JSON(http.StatusOK, inst)
}

func transitionError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "institute not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
