package repo

import (
	"context"

	"github.com/Skotchmaster/bookstore/internal/models"
)

func (r *GormRepo) FindAuthors(ctx context.Context) ([]models.Author, error) {
	var authors []models.Author
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *GormRepo) FindAuthorByID(ctx context.Context, id uint) (*models.Author, error) {
	var author models.Author
	if err := r.DB.WithContext(ctx).First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *GormRepo) SaveAuthor(ctx context.Context, author *models.Author) error {
	return r.DB.WithContext(ctx).Save(author).Error
}

func (r *GormRepo) SoftDeleteAuthor(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Author{}, id).Error
}
