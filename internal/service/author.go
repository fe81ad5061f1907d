package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type AuthorRepo interface {
	FindAuthors(ctx context.Context) ([]models.Author, error)
	FindAuthorByID(ctx context.Context, id uint) (*models.Author, error)
	SaveAuthor(ctx context.Context, author *models.Author) error
	SoftDeleteAuthor(ctx context.Context, id uint) error
}

type AuthorService struct {
	Repo AuthorRepo
}

func (s *AuthorService) FindAll(ctx context.Context) ([]models.Author, error) {
	return s.Repo.FindAuthors(ctx)
}

func (s *AuthorService) FindByID(ctx context.Context, id uint) (*models.Author, error) {
	author, err := s.Repo.FindAuthorByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "author with id %d not found", id)
	}
	return author, nil
}

func (s *AuthorService) Create(ctx context.Context, req transport.CreateAuthorRequest) (*models.Author, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("%w: first_name and last_name required", ErrValidation)
	}

	author := &models.Author{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}
	if err := s.Repo.SaveAuthor(ctx, author); err != nil {
		logging.FromContext(ctx).Error("create_author_error", "status", 500, "error", err)
		return nil, err
	}
	return author, nil
}

func (s *AuthorService) Update(ctx context.Context, id uint, req transport.PatchAuthorRequest) (*models.Author, error) {
	author, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		author.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		author.LastName = *req.LastName
	}
	if req.Bio != nil {
		author.Bio = *req.Bio
	}

	if err := s.Repo.SaveAuthor(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *AuthorService) Remove(ctx context.Context, id uint) error {
	return s.Repo.SoftDeleteAuthor(ctx, id)
}
