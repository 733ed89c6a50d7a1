package memory

import (
	"context"
	"testing"
	"time"

	"cinecomments/internal/models"
	"cinecomments/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestMovie(title string, created time.Time) *models.Movie {
	return &models.Movie{
		Title:       title,
		Director:    "Someone",
		Year:        2000,
		Description: "desc",
		Genre:       "Drama",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestMovieStore_InsertAndFind(t *testing.T) {
	s := NewMovieStore()
	ctx := context.Background()

	m := newTestMovie("Dune", time.Now())
	require.NoError(t, s.Insert(ctx, m))
	assert.False(t, m.ID.IsZero())
	assert.EqualValues(t, 1, m.Version)

	got, err := s.FindByID(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dune", got.Title)
	assert.NotNil(t, got.Comments)

	missing, err := s.FindByID(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMovieStore_ReadsAreCopies(t *testing.T) {
	s := NewMovieStore()
	ctx := context.Background()

	m := newTestMovie("Dune", time.Now())
	require.NoError(t, s.Insert(ctx, m))

	got, _ := s.FindByID(ctx, m.ID)
	got.Comments = append(got.Comments, models.Comment{ID: primitive.NewObjectID(), Comment: "unsaved"})

	again, _ := s.FindByID(ctx, m.ID)
	assert.Empty(t, again.Comments)
}

func TestMovieStore_FindAllNewestFirst(t *testing.T) {
	s := NewMovieStore()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, s.Insert(ctx, newTestMovie("old", base.Add(-time.Hour))))
	require.NoError(t, s.Insert(ctx, newTestMovie("new", base)))
	require.NoError(t, s.Insert(ctx, newTestMovie("same-time-later", base)))

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "same-time-later", all[0].Title)
	assert.Equal(t, "new", all[1].Title)
	assert.Equal(t, "old", all[2].Title)
}

func TestMovieStore_ReplaceDetectsStaleVersion(t *testing.T) {
	s := NewMovieStore()
	ctx := context.Background()

	m := newTestMovie("Dune", time.Now())
	require.NoError(t, s.Insert(ctx, m))

	first, _ := s.FindByID(ctx, m.ID)
	second, _ := s.FindByID(ctx, m.ID)

	first.Title = "Dune: Part One"
	require.NoError(t, s.Replace(ctx, first))
	assert.EqualValues(t, 2, first.Version)

	second.Title = "lost update"
	err := s.Replace(ctx, second)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	got, _ := s.FindByID(ctx, m.ID)
	assert.Equal(t, "Dune: Part One", got.Title)
}

func TestMovieStore_Delete(t *testing.T) {
	s := NewMovieStore()
	ctx := context.Background()

	m := newTestMovie("Dune", time.Now())
	require.NoError(t, s.Insert(ctx, m))

	ok, err := s.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Replace(ctx, m), repository.ErrVersionConflict)
}

func TestUserStore_UniqueEmail(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, &models.User{Email: "a@b.com", Password: "hash"}))
	err := s.Insert(ctx, &models.User{Email: "a@b.com", Password: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserStore_FindByIDsOmitsPassword(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	u := &models.User{Email: "a@b.com", Password: "hash"}
	require.NoError(t, s.Insert(ctx, u))

	users, err := s.FindByIDs(ctx, []primitive.ObjectID{u.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@b.com", users[0].Email)
	assert.Empty(t, users[0].Password)

	stored, _ := s.FindByID(ctx, u.ID)
	assert.Equal(t, "hash", stored.Password)
}

func TestUserStore_SetAdmin(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	u := &models.User{Email: "root@b.com"}
	require.NoError(t, s.Insert(ctx, u))

	assert.True(t, s.SetAdmin("root@b.com", true))
	assert.False(t, s.SetAdmin("nobody@b.com", true))

	got, _ := s.FindByEmail(ctx, "root@b.com")
	assert.True(t, got.IsAdmin)
}
