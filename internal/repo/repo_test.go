package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/db"
	"github.com/Skotchmaster/bookstore/internal/models"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()
	gdb, err := db.OpenTest(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(gdb)
}

func seedUser(t *testing.T, r *GormRepo, username, email string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: email, Password: "p", Salt: "s", Role: models.RoleUser}
	require.NoError(t, r.SaveUser(context.Background(), u))
	return u
}

func seedBook(t *testing.T, r *GormRepo, title string, price float64) *models.Book {
	t.Helper()
	ctx := context.Background()
	a := &models.Author{FirstName: "Ursula", LastName: "Le Guin"}
	require.NoError(t, r.SaveAuthor(ctx, a))
	b := &models.Book{Title: title, Price: price, Authors: []models.Author{*a}}
	require.NoError(t, r.CreateBook(ctx, b))
	return b
}

func TestBookCreateKeepsAuthors(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	b := seedBook(t, r, "Earthsea", 9.5)
	require.NotZero(t, b.ID)

	got, err := r.FindBookByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Authors, 1)
	assert.Equal(t, "Le Guin", got.Authors[0].LastName)

	authors, err := r.FindAuthors(ctx)
	require.NoError(t, err)
	assert.Len(t, authors, 1)

	got.Title = "A Wizard of Earthsea"
	got.Authors = nil
	require.NoError(t, r.SaveBook(ctx, got))

	got, err = r.FindBookByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "A Wizard of Earthsea", got.Title)
	assert.Len(t, got.Authors, 1)

	byTitle, err := r.FindBooksByTitle(ctx, "A Wizard of Earthsea")
	require.NoError(t, err)
	assert.Len(t, byTitle, 1)
}

func TestSoftDeleteHidesRows(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	b := seedBook(t, r, "Dune", 10)
	require.NoError(t, r.SoftDeleteBook(ctx, b.ID))

	_, err := r.FindBookByID(ctx, b.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	books, err := r.FindBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	var count int64
	require.NoError(t, r.DB.Unscoped().Model(&models.Book{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// deleting something that is not there is not an error
	require.NoError(t, r.SoftDeleteBook(ctx, 999))
}

func TestUserLookups(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	alice := seedUser(t, r, "alice", "alice@example.com")
	seedUser(t, r, "bob", "bob@example.com")

	taken, err := r.UsernameTaken(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.UsernameTaken(ctx, "ali")
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = r.EmailTaken(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	u, err := r.FindUserByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)

	u, err = r.FindUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)

	_, err = r.FindUserByLogin(ctx, "carol")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSearchUsers(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	a := &models.User{Username: "jsmith", Email: "js@mail.org", FirstName: "John", LastName: "Smith", Password: "p", Salt: "s"}
	b := &models.User{Username: "jdoe", Email: "jd@corp.com", FirstName: "Jane", LastName: "Doe", Password: "p", Salt: "s"}
	require.NoError(t, r.SaveUser(ctx, a))
	require.NoError(t, r.SaveUser(ctx, b))

	all, err := r.SearchUsers(ctx, UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	res, err := r.SearchUsers(ctx, UserFilter{Username: "j"})
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = r.SearchUsers(ctx, UserFilter{Username: "j", Email: "corp"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "jdoe", res[0].Username)

	res, err = r.SearchUsers(ctx, UserFilter{LastName: "mit", FirstName: "oh"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "jsmith", res[0].Username)

	res, err = r.SearchUsers(ctx, UserFilter{LastName: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestUniqueUsernameOnlyAmongActive(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice", "alice@example.com")

	dup := &models.User{Username: "alice", Email: "other@example.com", Password: "p", Salt: "s"}
	err := r.SaveUser(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	require.NoError(t, r.SoftDeleteUser(ctx, u.ID))

	again := &models.User{Username: "alice", Email: "alice@example.com", Password: "p", Salt: "s"}
	require.NoError(t, r.SaveUser(ctx, again))
}

func TestCardItems(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice", "alice@example.com")
	b := seedBook(t, r, "Dune", 10)

	card := &models.ShoppingCard{UserID: u.ID}
	require.NoError(t, r.CreateCard(ctx, card))

	item := &models.ShoppingCardItem{CardID: card.ID, BookID: b.ID, Quantity: 2}
	require.NoError(t, r.AddCardItem(ctx, item))
	item = &models.ShoppingCardItem{CardID: card.ID, BookID: b.ID, Quantity: 1}
	require.NoError(t, r.AddCardItem(ctx, item))
	assert.Equal(t, uint(3), item.Quantity)

	got, err := r.FindCardByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Book)
	assert.Equal(t, "Dune", got.Items[0].Book.Title)

	deleted, left, err := r.RemoveCardItem(ctx, card.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, uint(2), left.Quantity)

	_, _, err = r.RemoveCardItem(ctx, card.ID, b.ID)
	require.NoError(t, err)
	deleted, _, err = r.RemoveCardItem(ctx, card.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, _, err = r.RemoveCardItem(ctx, card.ID, b.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, r.AddCardItem(ctx, &models.ShoppingCardItem{CardID: card.ID, BookID: b.ID, Quantity: 4}))
	var lines int64
	require.NoError(t, r.DB.Model(&models.ShoppingCardItem{}).Where("card_id = ?", card.ID).Count(&lines).Error)
	assert.Equal(t, int64(1), lines)

	require.NoError(t, r.ClearCard(ctx, card.ID))
	got, err = r.FindCardByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	cards, err := r.FindCards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	require.NoError(t, r.SoftDeleteCard(ctx, card.ID))
	_, err = r.FindCardByUser(ctx, u.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestAddCardItemConcurrent(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice", "alice@example.com")
	b := seedBook(t, r, "Dune", 10)
	card := &models.ShoppingCard{UserID: u.ID}
	require.NoError(t, r.CreateCard(ctx, card))

	const adds = 8
	var wg sync.WaitGroup
	errs := make(chan error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.AddCardItem(ctx, &models.ShoppingCardItem{CardID: card.ID, BookID: b.ID, Quantity: 1})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := r.FindCardByID(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, uint(adds), got.Items[0].Quantity)
}

func TestCardHidesRemovedBooks(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice", "alice@example.com")
	dune := seedBook(t, r, "Dune", 10)
	emma := seedBook(t, r, "Emma", 2.5)
	card := &models.ShoppingCard{UserID: u.ID}
	require.NoError(t, r.CreateCard(ctx, card))
	require.NoError(t, r.AddCardItem(ctx, &models.ShoppingCardItem{CardID: card.ID, BookID: dune.ID, Quantity: 2}))
	require.NoError(t, r.AddCardItem(ctx, &models.ShoppingCardItem{CardID: card.ID, BookID: emma.ID, Quantity: 1}))

	require.NoError(t, r.SoftDeleteBook(ctx, dune.ID))

	got, err := r.FindCardByID(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Book)
	assert.Equal(t, "Emma", got.Items[0].Book.Title)
}

func TestSoftDeleteUserCascades(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()

	u := seedUser(t, r, "alice", "alice@example.com")
	card := &models.ShoppingCard{UserID: u.ID}
	require.NoError(t, r.CreateCard(ctx, card))
	require.NoError(t, r.CreateRefreshToken(ctx, &models.RefreshToken{JTI: "j1", Token: "h1", UserID: u.ID, Role: "user", ExpiresAt: exp}))

	require.NoError(t, r.SoftDeleteUser(ctx, u.ID))

	_, err := r.FindCardByUser(ctx, u.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	stored, err := r.FindRefreshByJTI(ctx, "j1")
	require.NoError(t, err)
	assert.True(t, stored.Revoked)
}

func TestRotateRefreshToken(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()

	old := &models.RefreshToken{JTI: "j1", Token: "h1", UserID: 1, Role: "user", ExpiresAt: exp}
	require.NoError(t, r.CreateRefreshToken(ctx, old))

	next := &models.RefreshToken{JTI: "j2", Token: "h2", UserID: 1, Role: "user", ExpiresAt: exp}
	require.NoError(t, r.RotateRefreshToken(ctx, "j1", next))

	stored, err := r.FindRefreshByJTI(ctx, "j1")
	require.NoError(t, err)
	assert.True(t, stored.Revoked)

	again := &models.RefreshToken{JTI: "j3", Token: "h3", UserID: 1, Role: "user", ExpiresAt: exp}
	err = r.RotateRefreshToken(ctx, "j1", again)
	assert.ErrorIs(t, err, ErrTokenExpiredOrRevoked)

	require.NoError(t, r.RevokeRefreshByHash(ctx, "h2"))
	stored, err = r.FindRefreshByJTI(ctx, "j2")
	require.NoError(t, err)
	assert.True(t, stored.Revoked)
}

func TestRotateExpiredRefreshToken(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	old := &models.RefreshToken{JTI: "j1", Token: "h1", UserID: 1, Role: "user", ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	require.NoError(t, r.CreateRefreshToken(ctx, old))

	err := r.RotateRefreshToken(ctx, "j1", &models.RefreshToken{JTI: "j2", Token: "h2", UserID: 1, Role: "user"})
	assert.ErrorIs(t, err, ErrTokenExpiredOrRevoked)
}
