package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bookstore/internal/models"
)

func (r *GormRepo) FindBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.DB.WithContext(ctx).Preload("Authors").Order("id ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *GormRepo) FindBookByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.DB.WithContext(ctx).Preload("Authors").First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *GormRepo) FindBooksByTitle(ctx context.Context, title string) ([]models.Book, error) {
	var books []models.Book
	if err := r.DB.WithContext(ctx).
		Preload("Authors").
		Where("title = ?", title).
		Order("id ASC").
		Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook stores the book and its author links. Authors must already exist.
func (r *GormRepo) CreateBook(ctx context.Context, book *models.Book) error {
	return r.DB.WithContext(ctx).Omit("Authors.*").Create(book).Error
}

// SaveBook writes the book's own columns and leaves author links untouched.
func (r *GormRepo) SaveBook(ctx context.Context, book *models.Book) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(book).Error
}

func (r *GormRepo) SoftDeleteBook(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Book{}, id).Error
}
