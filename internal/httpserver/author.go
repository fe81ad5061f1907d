package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type AuthorHTTP struct {
	Svc *service.AuthorService
}

func (h *AuthorHTTP) List(c echo.Context) error {
	authors, err := h.Svc.FindAll(c.Request().Context())
	if err != nil {
		return fail(c, "list_authors_error", err)
	}
	return c.JSON(http.StatusOK, authors)
}

func (h *AuthorHTTP) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	author, err := h.Svc.FindByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "get_author_error", err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHTTP) Create(c echo.Context) error {
	var req transport.CreateAuthorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	author, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, "create_author_error", err)
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *AuthorHTTP) Patch(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req transport.PatchAuthorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	author, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, "patch_author_error", err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHTTP) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(c.Request().Context(), id); err != nil {
		return fail(c, "delete_author_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
