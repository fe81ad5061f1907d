package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type CardRepo interface {
	FindCards(ctx context.Context) ([]models.ShoppingCard, error)
	FindCardByID(ctx context.Context, id uint) (*models.ShoppingCard, error)
	FindCardByUser(ctx context.Context, userID uint) (*models.ShoppingCard, error)
	CreateCard(ctx context.Context, card *models.ShoppingCard) error
	SoftDeleteCard(ctx context.Context, id uint) error
	AddCardItem(ctx context.Context, item *models.ShoppingCardItem) error
	RemoveCardItem(ctx context.Context, cardID, bookID uint) (bool, *models.ShoppingCardItem, error)
	ClearCard(ctx context.Context, cardID uint) error
}

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

type BookFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Book, error)
}

type ShoppingCardService struct {
	Repo   CardRepo
	Users  UserFinder
	Books  BookFinder
	Events EventPublisher
}

func (s *ShoppingCardService) Create(ctx context.Context, userID uint) (*models.ShoppingCard, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	_, err := s.Repo.FindCardByUser(ctx, userID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: user %d already has a card", ErrConflict, userID)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	card := &models.ShoppingCard{UserID: userID}
	if err := s.Repo.CreateCard(ctx, card); err != nil {
		logging.FromContext(ctx).Error("create_card_error", "status", 500, "user_id", userID, "error", err)
		return nil, err
	}
	return card, nil
}

func (s *ShoppingCardService) FindAll(ctx context.Context) ([]models.ShoppingCard, error) {
	return s.Repo.FindCards(ctx)
}

func (s *ShoppingCardService) FindByID(ctx context.Context, id uint) (*models.ShoppingCard, error) {
	card, err := s.Repo.FindCardByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "card with id %d not found", id)
	}
	return card, nil
}

func (s *ShoppingCardService) FindByUser(ctx context.Context, userID uint) (*models.ShoppingCard, error) {
	card, err := s.Repo.FindCardByUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "card for user %d not found", userID)
	}
	return card, nil
}

// ForUser returns the user's card, creating an empty one on first use.
func (s *ShoppingCardService) ForUser(ctx context.Context, userID uint) (*models.ShoppingCard, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	card, err := s.FindByUser(ctx, userID)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	card, err = s.Create(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, card.ID)
}

func (s *ShoppingCardService) AddBook(ctx context.Context, cardID, bookID, quantity uint) (*models.ShoppingCardItem, error) {
	l := logging.FromContext(ctx).With("svc", "card.add")

	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if _, err := s.FindByID(ctx, cardID); err != nil {
		return nil, err
	}
	book, err := s.Books.FindByID(ctx, bookID)
	if err != nil {
		l.Warn("add_to_card_error", "reason", "book lookup failed", "book_id", bookID, "error", err)
		return nil, err
	}

	item := &models.ShoppingCardItem{CardID: cardID, BookID: book.ID, Quantity: quantity}
	if err := s.Repo.AddCardItem(ctx, item); err != nil {
		l.Error("add_to_card_error", "status", 500, "card_id", cardID, "book_id", bookID, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, TopicCartEvents, cardID, map[string]any{
		"type":     "card_item_added",
		"cardID":   cardID,
		"bookID":   bookID,
		"quantity": quantity,
	})
	return item, nil
}

func (s *ShoppingCardService) RemoveBook(ctx context.Context, cardID, bookID uint) (*transport.RemoveFromCardResponse, error) {
	deleted, item, err := s.Repo.RemoveCardItem(ctx, cardID, bookID)
	if err != nil {
		return nil, notFound(err, "book %d is not in card %d", bookID, cardID)
	}

	res := &transport.RemoveFromCardResponse{BookID: bookID, Deleted: deleted}
	if !deleted {
		res.Quantity = item.Quantity
	}

	publish(ctx, s.Events, TopicCartEvents, cardID, map[string]any{
		"type":    "card_item_removed",
		"cardID":  cardID,
		"bookID":  bookID,
		"deleted": deleted,
	})
	return res, nil
}

func (s *ShoppingCardService) Clear(ctx context.Context, cardID uint) error {
	if err := s.Repo.ClearCard(ctx, cardID); err != nil {
		return err
	}
	publish(ctx, s.Events, TopicCartEvents, cardID, map[string]any{
		"type":   "card_cleared",
		"cardID": cardID,
	})
	return nil
}

func (s *ShoppingCardService) Total(ctx context.Context, cardID uint) (*transport.CardTotal, error) {
	card, err := s.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	res := &transport.CardTotal{CardID: card.ID}
	for _, item := range card.Items {
		if item.Book == nil {
			continue
		}
		res.Items += int(item.Quantity)
		res.Total += float64(item.Quantity) * item.Book.Price
	}
	return res, nil
}

func (s *ShoppingCardService) Remove(ctx context.Context, id uint) error {
	return s.Repo.SoftDeleteCard(ctx, id)
}
