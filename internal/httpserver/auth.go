package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/middleware/auth"
	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/tokens"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type AuthHTTP struct {
	Users  *service.UserService
	Tokens *service.TokenService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.Users.Register(c.Request().Context(), req)
	if err != nil {
		return fail(c, "register_error", err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.Users.Login(ctx, req)
	if err != nil {
		return fail(c, "login_error", err)
	}

	pair, err := h.Tokens.Issue(ctx, user.ID, user.Role)
	if err != nil {
		return fail(c, "login_error", err)
	}
	auth.SetAuthCookies(c, pair)

	l.Info("login_successful", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"user":     user,
		"is_admin": pair.IsAdmin,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	pair, err := h.Tokens.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		auth.ClearAuthCookies(c)
		return fail(c, "refresh_error", err)
	}
	auth.SetAuthCookies(c, pair)

	return c.JSON(http.StatusOK, echo.Map{
		"access_exp":  pair.AccessExp,
		"refresh_exp": pair.RefreshExp,
		"is_admin":    pair.IsAdmin,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	var token string
	if cookie, err := c.Cookie(tokens.RefreshCookie); err == nil {
		token = cookie.Value
	}

	err := h.Tokens.LogOut(c.Request().Context(), token)
	auth.ClearAuthCookies(c)
	if err != nil {
		return fail(c, "logout_error", err)
	}

	logging.FromContext(c.Request().Context()).Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
