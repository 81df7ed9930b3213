package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAuthorName(t *testing.T) {
	tests := []struct {
		first, family, want string
	}{
		{"Jane", "Austen", "Austen, Jane"},
		{"", "Austen", ""},
		{"Jane", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		a := Author{FirstName: tt.first, FamilyName: tt.family}
		assert.Equal(t, tt.want, a.Name(), "%q %q", tt.first, tt.family)
	}
}

func TestAuthorLifespan(t *testing.T) {
	assert.Equal(t, "", Author{}.Lifespan())
	assert.Equal(t, "1775-12-16 - ", Author{DateOfBirth: date(1775, 12, 16)}.Lifespan())
	assert.Equal(t, " - 1817-07-18", Author{DateOfDeath: date(1817, 7, 18)}.Lifespan())
	assert.Equal(t, "1775-12-16 - 1817-07-18",
		Author{DateOfBirth: date(1775, 12, 16), DateOfDeath: date(1817, 7, 18)}.Lifespan())
}

func TestURLs(t *testing.T) {
	id := uuid.MustParse("0b6c2f5e-8a55-4d8e-9f0e-1c2d3e4f5a6b")
	assert.Equal(t, "/catalog/author/"+id.String(), Author{ID: id}.URL())
	assert.Equal(t, "/catalog/genre/"+id.String(), Genre{ID: id}.URL())
	assert.Equal(t, "/catalog/book/"+id.String(), Book{ID: id}.URL())
	assert.Equal(t, "/catalog/bookinstance/"+id.String(), BookInstance{ID: id}.URL())
}

func TestDueBackFormatted(t *testing.T) {
	assert.Empty(t, BookInstance{}.DueBackFormatted())
	assert.Equal(t, "2026-12-01", BookInstance{DueBack: date(2026, 12, 1)}.DueBackFormatted())
}

func TestBeforeCreateKeepsExistingID(t *testing.T) {
	fixed := uuid.New()
	a := &Author{ID: fixed}
	assert.NoError(t, a.BeforeCreate(nil))
	assert.Equal(t, fixed, a.ID)

	g := &Genre{}
	assert.NoError(t, g.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, g.ID)
}

func TestGenreIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	book := Book{Genres: []Genre{{ID: a}, {ID: b}}}
	assert.Equal(t, []uuid.UUID{a, b}, book.GenreIDs())
	assert.Empty(t, Book{}.GenreIDs())
}
