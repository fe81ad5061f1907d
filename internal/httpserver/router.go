package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/middleware/auth"
)

type Deps struct {
	Authors *AuthorHTTP
	Books   *BookHTTP
	Users   *UserHTTP
	Auth    *AuthHTTP
	Cart    *CartHTTP
	AuthMW  *auth.Middleware
	// Ready reports whether dependencies (the database) are reachable.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authn := d.AuthMW.RequireAuth
	admin := d.AuthMW.RequireAdmin

	a := e.Group("/auth")
	a.POST("/register", d.Auth.Register)
	a.POST("/login", d.Auth.Login)
	a.POST("/refresh", d.Auth.Refresh)
	a.POST("/logout", d.Auth.LogOut)

	authors := e.Group("/authors")
	authors.GET("", d.Authors.List)
	authors.GET("/:id", d.Authors.Get)
	authors.POST("", d.Authors.Create, admin)
	authors.PATCH("/:id", d.Authors.Patch, admin)
	authors.DELETE("/:id", d.Authors.Delete, admin)

	books := e.Group("/books")
	books.GET("", d.Books.List)
	books.GET("/search", d.Books.SearchBooks)
	books.GET("/:id", d.Books.Get)
	books.POST("", d.Books.Create, admin)
	books.PUT("/:id", d.Books.Update, admin)
	books.DELETE("/:id", d.Books.Delete, admin)

	users := e.Group("/users")
	users.GET("/me", d.Users.Me, authn)
	users.GET("", d.Users.List, admin)
	users.GET("/search", d.Users.Search, admin)
	users.GET("/:id", d.Users.Get, admin)
	users.POST("", d.Users.Create, admin)
	users.PATCH("/:id", d.Users.Patch, admin)
	users.DELETE("/:id", d.Users.Delete, admin)

	cart := e.Group("/cart", authn)
	cart.GET("", d.Cart.GetCart)
	cart.GET("/total", d.Cart.Total)
	cart.POST("/items", d.Cart.AddToCart)
	cart.DELETE("/items/:bookId", d.Cart.RemoveFromCart)
	cart.DELETE("", d.Cart.Clear)

	cards := e.Group("/cards", admin)
	cards.GET("", d.Cart.List)
	cards.GET("/:id", d.Cart.Get)
	cards.DELETE("/:id", d.Cart.Delete)
}
