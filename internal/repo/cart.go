package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bookstore/internal/models"
)

func (r *GormRepo) cards(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Where("book_id IN (SELECT id FROM books WHERE deleted_at IS NULL)").Order("id ASC")
	}).Preload("Items.Book")
}

func (r *GormRepo) FindCards(ctx context.Context) ([]models.ShoppingCard, error) {
	var cards []models.ShoppingCard
	if err := r.cards(ctx).Order("id ASC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *GormRepo) FindCardByID(ctx context.Context, id uint) (*models.ShoppingCard, error) {
	var card models.ShoppingCard
	if err := r.cards(ctx).First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *GormRepo) FindCardByUser(ctx context.Context, userID uint) (*models.ShoppingCard, error) {
	var card models.ShoppingCard
	if err := r.cards(ctx).Where("user_id = ?", userID).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *GormRepo) CreateCard(ctx context.Context, card *models.ShoppingCard) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(card).Error
}

func (r *GormRepo) SoftDeleteCard(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.ShoppingCard{}, id).Error
}

// AddCardItem inserts the line or adds to the quantity of the existing one
// in a single upsert. item is refreshed with the stored state.
func (r *GormRepo) AddCardItem(ctx context.Context, item *models.ShoppingCardItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "card_id"}, {Name: "book_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("shopping_card_items.quantity + excluded.quantity"),
			}),
		}).Omit(clause.Associations).Create(item).Error; err != nil {
			return err
		}

		var stored models.ShoppingCardItem
		if err := tx.Where("card_id = ? AND book_id = ?", item.CardID, item.BookID).
			First(&stored).Error; err != nil {
			return err
		}
		*item = stored
		return nil
	})
}

// RemoveCardItem takes one unit off a line and drops the line at zero.
func (r *GormRepo) RemoveCardItem(ctx context.Context, cardID, bookID uint) (bool, *models.ShoppingCardItem, error) {
	var item models.ShoppingCardItem
	deleted := false

	if err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("card_id = ? AND book_id = ?", cardID, bookID).
			First(&item).Error; err != nil {
			return err
		}
		if item.Quantity > 1 {
			if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
				return err
			}
			return tx.Where("card_id = ? AND book_id = ?", cardID, bookID).First(&item).Error
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	}); err != nil {
		return false, nil, err
	}
	return deleted, &item, nil
}

func (r *GormRepo) ClearCard(ctx context.Context, cardID uint) error {
	return r.DB.WithContext(ctx).Where("card_id = ?", cardID).Delete(&models.ShoppingCardItem{}).Error
}
