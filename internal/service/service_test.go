package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookstore/internal/db"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/repo"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (r *recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, _ := event.(map[string]any)
	r.events = append(r.events, recordedEvent{Topic: topic, Key: key, Event: m})
	return r.err
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type fakeIndex struct {
	docs map[uint]string
	err  error
}

func (f *fakeIndex) IndexBook(_ context.Context, b *models.Book) error {
	if f.err != nil {
		return f.err
	}
	f.docs[b.ID] = b.Title
	return nil
}

func (f *fakeIndex) DeleteBook(_ context.Context, id uint) error {
	delete(f.docs, id)
	return f.err
}

type env struct {
	repo    *repo.GormRepo
	events  *recorder
	index   *fakeIndex
	authors *AuthorService
	books   *BookService
	users   *UserService
	cards   *ShoppingCardService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gdb, err := db.OpenTest(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := repo.New(gdb)
	ev := &recorder{}
	idx := &fakeIndex{docs: map[uint]string{}}

	authors := &AuthorService{Repo: r}
	books := &BookService{Repo: r, Authors: authors, Events: ev, Index: idx}
	users := &UserService{Repo: r, Events: ev}
	return &env{
		repo:    r,
		events:  ev,
		index:   idx,
		authors: authors,
		books:   books,
		users:   users,
		cards:   &ShoppingCardService{Repo: r, Users: users, Books: books, Events: ev},
	}
}

var errBoom = errors.New("boom")
