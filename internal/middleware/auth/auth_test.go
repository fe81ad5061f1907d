package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookstore/internal/tokens"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

var secret = []byte("access-secret")

type stubRefresher struct {
	pair  *transport.TokenPair
	err   error
	calls int
}

func (s *stubRefresher) Refresh(_ context.Context, _ string) (*transport.TokenPair, error) {
	s.calls++
	return s.pair, s.err
}

func signed(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.SignAccess(sub, role, exp, secret)
	require.NoError(t, err)
	return tok
}

func serve(m echo.MiddlewareFunc, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := m(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return rec, c, err
}

func status(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected echo.HTTPError, got %v", err)
	return he.Code
}

func TestRequireAuthValidToken(t *testing.T) {
	m := New(secret, &stubRefresher{})
	tok := signed(t, "42", "user", time.Now().Add(time.Minute))

	rec, c, err := serve(m.RequireAuth, &http.Cookie{Name: tokens.AccessCookie, Value: tok})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	id, ok := UserID(c)
	require.True(t, ok)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "user", c.Get(RoleKey))
}

func TestRequireAuthMissingCookie(t *testing.T) {
	_, _, err := serve(New(secret, &stubRefresher{}).RequireAuth)
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
}

func TestRequireAuthGarbageToken(t *testing.T) {
	_, _, err := serve(New(secret, &stubRefresher{}).RequireAuth,
		&http.Cookie{Name: tokens.AccessCookie, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
}

func TestRequireAdminRejectsUser(t *testing.T) {
	tok := signed(t, "1", "user", time.Now().Add(time.Minute))
	_, _, err := serve(New(secret, &stubRefresher{}).RequireAdmin,
		&http.Cookie{Name: tokens.AccessCookie, Value: tok})
	assert.Equal(t, http.StatusForbidden, status(t, err))
}

func TestRequireAdminAcceptsAdmin(t *testing.T) {
	tok := signed(t, "1", "admin", time.Now().Add(time.Minute))
	rec, _, err := serve(New(secret, &stubRefresher{}).RequireAdmin,
		&http.Cookie{Name: tokens.AccessCookie, Value: tok})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpiredAccessIsRefreshed(t *testing.T) {
	fresh := signed(t, "7", "user", time.Now().Add(time.Minute))
	ref := &stubRefresher{pair: &transport.TokenPair{
		AccessToken:  fresh,
		RefreshToken: "new-refresh",
		AccessExp:    time.Now().Add(time.Minute),
		RefreshExp:   time.Now().Add(time.Hour),
	}}
	expired := signed(t, "7", "user", time.Now().Add(-time.Minute))

	rec, c, err := serve(New(secret, ref).RequireAuth,
		&http.Cookie{Name: tokens.AccessCookie, Value: expired},
		&http.Cookie{Name: tokens.RefreshCookie, Value: "old-refresh"},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, ref.calls)
	assert.Equal(t, http.StatusOK, rec.Code)

	id, _ := UserID(c)
	assert.Equal(t, uint(7), id)

	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name)
	}
	assert.ElementsMatch(t, []string{tokens.AccessCookie, tokens.RefreshCookie}, names)
}

func TestExpiredAccessWithoutRefresh(t *testing.T) {
	expired := signed(t, "7", "user", time.Now().Add(-time.Minute))
	_, _, err := serve(New(secret, &stubRefresher{}).RequireAuth,
		&http.Cookie{Name: tokens.AccessCookie, Value: expired})
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
}

func TestRefreshFailure(t *testing.T) {
	ref := &stubRefresher{err: errors.New("revoked")}
	expired := signed(t, "7", "user", time.Now().Add(-time.Minute))
	_, _, err := serve(New(secret, ref).RequireAuth,
		&http.Cookie{Name: tokens.AccessCookie, Value: expired},
		&http.Cookie{Name: tokens.RefreshCookie, Value: "old"},
	)
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
	assert.Equal(t, 1, ref.calls)
}
