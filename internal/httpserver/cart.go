package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/middleware/auth"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type CartHTTP struct {
	Svc *service.ShoppingCardService
}

// card resolves the caller's card, creating it on first access.
func (h *CartHTTP) card(c echo.Context) (*models.ShoppingCard, error) {
	userID, ok := auth.UserID(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	card, err := h.Svc.ForUser(c.Request().Context(), userID)
	if err != nil {
		return nil, fail(c, "get_cart_error", err)
	}
	return card, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	card, err := h.card(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

func (h *CartHTTP) Total(c echo.Context) error {
	card, err := h.card(c)
	if err != nil {
		return err
	}
	total, err := h.Svc.Total(c.Request().Context(), card.ID)
	if err != nil {
		return fail(c, "cart_total_error", err)
	}
	return c.JSON(http.StatusOK, total)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	var req transport.AddToCardRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	card, err := h.card(c)
	if err != nil {
		return err
	}
	item, err := h.Svc.AddBook(c.Request().Context(), card.ID, req.BookID, req.Quantity)
	if err != nil {
		return fail(c, "add_to_cart_error", err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	bookID, err := paramID(c, "bookId")
	if err != nil {
		return err
	}
	card, err := h.card(c)
	if err != nil {
		return err
	}
	res, err := h.Svc.RemoveBook(c.Request().Context(), card.ID, bookID)
	if err != nil {
		return fail(c, "remove_from_cart_error", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	card, err := h.card(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Clear(c.Request().Context(), card.ID); err != nil {
		return fail(c, "clear_cart_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) List(c echo.Context) error {
	cards, err := h.Svc.FindAll(c.Request().Context())
	if err != nil {
		return fail(c, "list_cards_error", err)
	}
	return c.JSON(http.StatusOK, cards)
}

func (h *CartHTTP) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	card, err := h.Svc.FindByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "get_card_error", err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *CartHTTP) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(c.Request().Context(), id); err != nil {
		return fail(c, "delete_card_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
