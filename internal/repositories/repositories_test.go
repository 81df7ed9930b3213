package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"locallibrary/internal/models"
	"locallibrary/internal/repositories"
	"locallibrary/internal/repositories/repotest"
)

type fixture struct {
	authors   repositories.AuthorRepository
	genres    repositories.GenreRepository
	books     repositories.BookRepository
	instances repositories.BookInstanceRepository
}

func newFixture(t *testing.T) fixture {
	db := repotest.NewDB(t)
	return fixture{
		authors:   repositories.NewAuthorRepository(db),
		genres:    repositories.NewGenreRepository(db),
		books:     repositories.NewBookRepository(db),
		instances: repositories.NewBookInstanceRepository(db),
	}
}

func TestAuthorRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	born := time.Date(1775, 12, 16, 0, 0, 0, 0, time.UTC)
	austen := &models.Author{FirstName: "Jane", FamilyName: "Austen", DateOfBirth: &born}
	bronte := &models.Author{FirstName: "Charlotte", FamilyName: "Bronte"}
	require.NoError(t, f.authors.Create(ctx, bronte))
	require.NoError(t, f.authors.Create(ctx, austen))
	assert.NotEqual(t, uuid.Nil, austen.ID)

	list, err := f.authors.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Austen", list[0].FamilyName)
	assert.Equal(t, "Bronte", list[1].FamilyName)

	got, err := f.authors.GetByID(ctx, austen.ID)
	require.NoError(t, err)
	assert.Equal(t, "Austen, Jane", got.Name())
	require.NotNil(t, got.DateOfBirth)
	assert.True(t, born.Equal(*got.DateOfBirth))
	assert.Nil(t, got.DateOfDeath)

	n, err := f.authors.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, f.authors.Delete(ctx, bronte.ID))
	_, err = f.authors.GetByID(ctx, bronte.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGenreRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"Poetry", "Fantasy", "Drama"} {
		require.NoError(t, f.genres.Create(ctx, &models.Genre{Name: name}))
	}

	list, err := f.genres.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Drama", "Fantasy", "Poetry"}, []string{list[0].Name, list[1].Name, list[2].Name})

	found, err := f.genres.FindByName(ctx, "Fantasy")
	require.NoError(t, err)
	assert.Equal(t, list[1].ID, found.ID)

	_, err = f.genres.FindByName(ctx, "fantasy")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "name lookup is case-sensitive")

	n, err := f.genres.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestBookRepositoryCreateAndExpand(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	author := &models.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, f.authors.Create(ctx, author))
	romance := &models.Genre{Name: "Romance"}
	satire := &models.Genre{Name: "Satire"}
	require.NoError(t, f.genres.Create(ctx, romance))
	require.NoError(t, f.genres.Create(ctx, satire))

	book := &models.Book{
		Title:    "Emma",
		AuthorID: author.ID,
		Summary:  "A matchmaker.",
		ISBN:     "0141439580",
		Genres:   []models.Genre{{ID: romance.ID}, {ID: satire.ID}},
	}
	require.NoError(t, f.books.Create(ctx, book))

	got, err := f.books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "Austen, Jane", got.Author.Name())
	require.Len(t, got.Genres, 2)
	assert.Equal(t, "Romance", got.Genres[0].Name)
	assert.Equal(t, "Satire", got.Genres[1].Name)

	// Linking by id must not create placeholder genres.
	n, err := f.genres.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	list, err := f.books.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Emma", list[0].Title)
	assert.Empty(t, list[0].Summary, "list only fetches title and author")
	require.NotNil(t, list[0].Author)
	assert.Equal(t, "Austen, Jane", list[0].Author.Name())

	byAuthor, err := f.books.ListByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "A matchmaker.", byAuthor[0].Summary)

	byGenre, err := f.books.ListByGenre(ctx, satire.ID)
	require.NoError(t, err)
	require.Len(t, byGenre, 1)
	assert.Equal(t, book.ID, byGenre[0].ID)

	titles, err := f.books.ListTitles(ctx)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "Emma", titles[0].Title)
}

func TestBookRepositoryKeepsGenreOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	author := &models.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, f.authors.Create(ctx, author))
	alpha := &models.Genre{Name: "Alpha"}
	mid := &models.Genre{Name: "Mid"}
	zeta := &models.Genre{Name: "Zeta"}
	for _, g := range []*models.Genre{alpha, mid, zeta} {
		require.NoError(t, f.genres.Create(ctx, g))
	}

	book := &models.Book{
		Title: "Emma", AuthorID: author.ID, Summary: "s", ISBN: "1",
		Genres: []models.Genre{{ID: zeta.ID}, {ID: alpha.ID}, {ID: zeta.ID}},
	}
	require.NoError(t, f.books.Create(ctx, book))

	got, err := f.books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{zeta.ID, alpha.ID}, got.GenreIDs(), "submitted order, duplicates dropped")
	require.Len(t, got.Genres, 2)
	assert.Equal(t, "Zeta", got.Genres[0].Name)
	assert.Equal(t, "Alpha", got.Genres[1].Name)

	update := &models.Book{
		ID: book.ID, Title: "Emma", AuthorID: author.ID, Summary: "s", ISBN: "1",
		Genres: []models.Genre{{ID: mid.ID}, {ID: zeta.ID}, {ID: alpha.ID}},
	}
	require.NoError(t, f.books.Update(ctx, update))
	got, err = f.books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{mid.ID, zeta.ID, alpha.ID}, got.GenreIDs())
}

func TestBookRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	author := &models.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, f.authors.Create(ctx, author))
	romance := &models.Genre{Name: "Romance"}
	satire := &models.Genre{Name: "Satire"}
	require.NoError(t, f.genres.Create(ctx, romance))
	require.NoError(t, f.genres.Create(ctx, satire))

	book := &models.Book{Title: "Emma", AuthorID: author.ID, Summary: "s", ISBN: "1", Genres: []models.Genre{{ID: romance.ID}}}
	require.NoError(t, f.books.Create(ctx, book))

	update := &models.Book{ID: book.ID, Title: "Emma (2nd ed.)", AuthorID: author.ID, Summary: "s2", ISBN: "2", Genres: []models.Genre{{ID: satire.ID}}}
	for i := 0; i < 2; i++ {
		require.NoError(t, f.books.Update(ctx, update))
		got, err := f.books.GetByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Emma (2nd ed.)", got.Title)
		assert.Equal(t, "s2", got.Summary)
		assert.Equal(t, "2", got.ISBN)
		require.Len(t, got.Genres, 1)
		assert.Equal(t, satire.ID, got.Genres[0].ID)
	}

	n, err := f.books.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "update overwrites rather than inserts")

	missing := &models.Book{ID: uuid.New(), Title: "x", AuthorID: author.ID, Summary: "x", ISBN: "x"}
	assert.ErrorIs(t, f.books.Update(ctx, missing), gorm.ErrRecordNotFound)
}

func TestBookInstanceRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	author := &models.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, f.authors.Create(ctx, author))
	book := &models.Book{Title: "Emma", AuthorID: author.ID, Summary: "s", ISBN: "1"}
	require.NoError(t, f.books.Create(ctx, book))

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	available := &models.BookInstance{BookID: book.ID, Imprint: "Penguin, 2003", Status: models.BookInstanceStatusAvailable}
	loaned := &models.BookInstance{BookID: book.ID, Imprint: "Penguin, 2003", Status: models.BookInstanceStatusLoaned, DueBack: &due}
	require.NoError(t, f.instances.Create(ctx, available))
	require.NoError(t, f.instances.Create(ctx, loaned))

	got, err := f.instances.GetByID(ctx, loaned.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Book)
	assert.Equal(t, "Emma", got.Book.Title)
	assert.Equal(t, "2026-11-01", got.DueBackFormatted())

	list, err := f.instances.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, bi := range list {
		require.NotNil(t, bi.Book)
		assert.Equal(t, "Emma", bi.Book.Title)
	}

	byBook, err := f.instances.ListByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Len(t, byBook, 2)

	total, err := f.instances.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	avail, err := f.instances.CountByStatus(ctx, models.BookInstanceStatusAvailable)
	require.NoError(t, err)
	assert.EqualValues(t, 1, avail)
}
