package user

import (
	"context"
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
	api.POST("/auth/login", h.Login, auth.Require(shield, "login"))
	api.GET("/me", h.Me, auth.Require(shield, "me"))
	api.GET("/me/status", h.Status, auth.Require(shield, "userStatus"))

	api.GET("/users", h.List, auth.Require(shield, "users"))
	api.POST("/users", h.Create, auth.Require(shield, "createUser"))
	api.POST("/users/institute", h.RegisterToInstitute, auth.Require(shield, "registerUserToInstitute"))
	api.POST("/users/:id/enable", h.Enable, auth.Require(shield, "enableUser"))
	api.POST("/users/:id/disable", h.Disable, auth.Require(shield, "disableUser"))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, token, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, ErrBadCredentials.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: u})
}

func (h *Handler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, auth.FromEcho(c).User)
}

func (h *Handler) Status(c echo.Context) error {
	report, err := h.svc.Status(c.Request().Context(), auth.FromEcho(c).User)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

type createRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Role        auth.Role  `json:"role"`
	InstituteID *uuid.UUID `json:"instituteId"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.Create(c.Request().Context(), CreateParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		InstituteID: req.InstituteID,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, ErrEmailTaken.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

// RegisterToInstitute adds a member to the calling institute admin's own
// institute; the target institute is never taken from the request body.
func (h *Handler) RegisterToInstitute(c echo.Context) error {
	actor := auth.FromEcho(c).User
	if actor.InstituteID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no institute assigned")
	}

	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.RegisterToInstitute(c.Request().Context(), *actor.InstituteID, CreateParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, ErrEmailTaken.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Enable(c echo.Context) error {
	return h.setStatus(c, h.svc.Enable)
}

func (h *Handler) Disable(c echo.Context) error {
	return h.setStatus(c, h.svc.Disable)
}

func (h *Handler) setStatus(c echo.Context, fn func(context.Context, uuid.UUID) (*User, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	u, err := fn(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, u)
}

// List returns users, optionally filtered by institute.
func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	if instID := c.QueryParam("institute_id"); instID != "" {
		id, err := uuid.Parse(instID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid institute_id")
		}
		users, total, err := h.svc.ListByInstitute(c.Request().Context(), id, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(users, total, pg.Limit, pg.Offset))
	}
	users, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, pg.Limit, pg.Offset))
}
