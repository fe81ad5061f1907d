package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/internal/util"
)

type BookSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []transport.BookHit, error)
}

type BookHTTP struct {
	Svc    *service.BookService
	Search BookSearcher
}

func (h *BookHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	if title := c.QueryParam("title"); title != "" {
		books, err := h.Svc.FindByTitle(ctx, title)
		if err != nil {
			return fail(c, "list_books_error", err)
		}
		return c.JSON(http.StatusOK, books)
	}

	books, err := h.Svc.FindAll(ctx)
	if err != nil {
		return fail(c, "list_books_error", err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHTTP) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.Svc.FindByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "get_book_error", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) Create(c echo.Context) error {
	var req transport.CreateBookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, "create_book_error", err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *BookHTTP) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateBookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, "update_book_error", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(c.Request().Context(), id); err != nil {
		return fail(c, "delete_book_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookHTTP) SearchBooks(c echo.Context) error {
	if h.Search == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is disabled")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	total, books, err := h.Search.Search(c.Request().Context(), q, from, size)
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("search_books_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": books,
		"meta": echo.Map{
			"page":     max(page, 1),
			"size":     size,
			"total":    total,
			"has_prev": from > 0,
			"has_next": int64(from+size) < total,
		},
	})
}
