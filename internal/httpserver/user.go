package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/middleware/auth"
	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Me(c echo.Context) error {
	id, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := h.Svc.FindByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "get_me_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) List(c echo.Context) error {
	users, err := h.Svc.FindAll(c.Request().Context())
	if err != nil {
		return fail(c, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) Search(c echo.Context) error {
	var opts transport.UserSearch
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &opts); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	users, err := h.Svc.Search(c.Request().Context(), opts)
	if err != nil {
		return fail(c, "search_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.Svc.FindByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Create(c echo.Context) error {
	var req transport.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, "create_user_error", err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) Patch(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req transport.PatchUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, "patch_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(c.Request().Context(), id); err != nil {
		return fail(c, "delete_user_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
