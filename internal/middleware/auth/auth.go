package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/tokens"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// Refresher rotates a refresh token into a fresh pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*transport.TokenPair, error)
}

type Middleware struct {
	JWTSecret []byte
	Tokens    Refresher
}

func New(secret []byte, refresher Refresher) *Middleware {
	return &Middleware{JWTSecret: secret, Tokens: refresher}
}

type validatorFunc func(claims *tokens.AccessClaims) error

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, nil)
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *Middleware) require(next echo.HandlerFunc, validate validatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context())

		accessCookie, err := c.Cookie(tokens.AccessCookie)
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err == nil {
			return m.admit(c, next, claims, validate)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			ClearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie(tokens.RefreshCookie)
		if rErr != nil || refreshCookie.Value == "" {
			ClearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}

		pair, err := m.Tokens.Refresh(c.Request().Context(), refreshCookie.Value)
		if err != nil {
			l.Warn("auto_refresh_error", "status", 401, "error", err)
			ClearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
		}
		SetAuthCookies(c, pair)

		claims, err = tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
		if err != nil {
			ClearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
		}
		l.Debug("auto_refresh_success", "user_id", claims.Subject)
		return m.admit(c, next, claims, validate)
	}
}

func (m *Middleware) admit(c echo.Context, next echo.HandlerFunc, claims *tokens.AccessClaims, validate validatorFunc) error {
	if validate != nil {
		if err := validate(claims); err != nil {
			return err
		}
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		ClearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	c.Set(UserIDKey, uint(id))
	c.Set(RoleKey, claims.Role)
	return next(c)
}

// UserID reads the id stored by RequireAuth/RequireAdmin.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(UserIDKey).(uint)
	return id, ok
}

func SetAuthCookies(c echo.Context, pair *transport.TokenPair) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))
}

func ClearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
}
