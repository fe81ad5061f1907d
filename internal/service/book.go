package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type BookRepo interface {
	FindBooks(ctx context.Context) ([]models.Book, error)
	FindBookByID(ctx context.Context, id uint) (*models.Book, error)
	FindBooksByTitle(ctx context.Context, title string) ([]models.Book, error)
	CreateBook(ctx context.Context, book *models.Book) error
	SaveBook(ctx context.Context, book *models.Book) error
	SoftDeleteBook(ctx context.Context, id uint) error
}

type AuthorFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Author, error)
}

// BookIndexer mirrors books into the search index.
type BookIndexer interface {
	IndexBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id uint) error
}

type BookService struct {
	Repo    BookRepo
	Authors AuthorFinder
	Events  EventPublisher
	Index   BookIndexer
}

func (s *BookService) FindAll(ctx context.Context) ([]models.Book, error) {
	return s.Repo.FindBooks(ctx)
}

func (s *BookService) FindByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.Repo.FindBookByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "book with id %d not found", id)
	}
	return book, nil
}

func (s *BookService) FindByTitle(ctx context.Context, title string) ([]models.Book, error) {
	return s.Repo.FindBooksByTitle(ctx, title)
}

func (s *BookService) Create(ctx context.Context, req transport.CreateBookRequest) (*models.Book, error) {
	l := logging.FromContext(ctx).With("svc", "book.create")

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	author, err := s.Authors.FindByID(ctx, req.AuthorID)
	if err != nil {
		l.Warn("create_book_error", "reason", "author lookup failed", "author_id", req.AuthorID, "error", err)
		return nil, err
	}

	book := &models.Book{
		Title:   req.Title,
		Authors: []models.Author{*author},
		Price:   req.Price,
	}
	if err := s.Repo.CreateBook(ctx, book); err != nil {
		l.Error("create_book_error", "status", 500, "error", err)
		return nil, err
	}

	s.index(ctx, book)
	publish(ctx, s.Events, TopicBookEvents, book.ID, map[string]any{
		"type":   "book_created",
		"bookID": book.ID,
		"title":  book.Title,
	})
	return book, nil
}

func (s *BookService) Update(ctx context.Context, id uint, req transport.UpdateBookRequest) (*models.Book, error) {
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	book, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	book.Title = req.Title
	book.Price = req.Price

	if err := s.Repo.SaveBook(ctx, book); err != nil {
		return nil, err
	}

	s.index(ctx, book)
	publish(ctx, s.Events, TopicBookEvents, book.ID, map[string]any{
		"type":   "book_updated",
		"bookID": book.ID,
		"title":  book.Title,
	})
	return book, nil
}

func (s *BookService) Remove(ctx context.Context, id uint) error {
	if err := s.Repo.SoftDeleteBook(ctx, id); err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteBook(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("unindex_book_error", "book_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, TopicBookEvents, id, map[string]any{
		"type":   "book_deleted",
		"bookID": id,
	})
	return nil
}

func (s *BookService) index(ctx context.Context, book *models.Book) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexBook(ctx, book); err != nil {
		logging.FromContext(ctx).Warn("index_book_error", "book_id", book.ID, "error", err)
	}
}
