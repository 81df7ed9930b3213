package handlers

import (
	"github.com/google/uuid"

	"locallibrary/internal/models"
	"locallibrary/internal/services"
	v "locallibrary/internal/validation"
)

// Form structs hold submitted values as strings so a rejected submission can
// be shown again exactly as sanitized.

type authorForm struct {
	FirstName   string `form:"first_name"`
	FamilyName  string `form:"family_name"`
	DateOfBirth string `form:"date_of_birth"`
	DateOfDeath string `form:"date_of_death"`
}

func (f *authorForm) sanitize() v.Errors {
	val := v.New()
	f.FirstName = val.Field("first_name", f.FirstName,
		v.Trim,
		v.Required("First name must be specified"),
		v.Escape,
		v.Alphanumeric("First name has non-alphanumeric characters"))
	f.FamilyName = val.Field("family_name", f.FamilyName,
		v.Trim,
		v.Required("Family name must be specified"),
		v.Escape,
		v.Alphanumeric("Family name has non-alphanumeric characters"))
	f.DateOfBirth = val.Optional("date_of_birth", f.DateOfBirth, v.ISO8601("Invalid date of birth"))
	f.DateOfDeath = val.Optional("date_of_death", f.DateOfDeath, v.ISO8601("Invalid date of death"))
	return val.Errors()
}

// author converts a sanitized form that passed validation.
func (f *authorForm) author() (*models.Author, error) {
	born, err := v.ParseOptionalDate(f.DateOfBirth)
	if err != nil {
		return nil, err
	}
	died, err := v.ParseOptionalDate(f.DateOfDeath)
	if err != nil {
		return nil, err
	}
	return &models.Author{
		FirstName:   f.FirstName,
		FamilyName:  f.FamilyName,
		DateOfBirth: born,
		DateOfDeath: died,
	}, nil
}

type genreForm struct {
	Name string `form:"name"`
}

func (f *genreForm) sanitize() v.Errors {
	val := v.New()
	f.Name = val.Field("name", f.Name, v.Trim, v.Required("Genre name required"), v.Escape)
	return val.Errors()
}

type bookForm struct {
	Title   string   `form:"title"`
	Author  string   `form:"author"`
	Summary string   `form:"summary"`
	ISBN    string   `form:"isbn"`
	Genre   []string `form:"genre"`
}

func (f *bookForm) sanitize() v.Errors {
	val := v.New()
	f.Genre = v.Strings(f.Genre)
	f.Title = val.Field("title", f.Title, v.Trim, v.Required("Title must not be empty"), v.Escape)
	f.Author = val.Field("author", f.Author, v.Trim, v.Required("Author must not be empty"), v.Escape)
	f.Summary = val.Field("summary", f.Summary, v.Trim, v.Required("Summary must not be empty"), v.Escape)
	f.ISBN = val.Field("isbn", f.ISBN, v.Trim, v.Required("ISBN must not be empty"), v.Escape)
	f.Genre = val.Each("genre", f.Genre, v.Escape)
	return val.Errors()
}

// book builds the candidate book carrying id. When strict is false,
// identifiers that do not parse are left as uuid.Nil (or dropped, for genres)
// so the candidate can still be shown again; otherwise they are an error.
func (f *bookForm) book(id uuid.UUID, strict bool) (*models.Book, error) {
	book := &models.Book{
		ID:      id,
		Title:   f.Title,
		Summary: f.Summary,
		ISBN:    f.ISBN,
		Genres:  make([]models.Genre, 0, len(f.Genre)),
	}
	authorID, err := services.ParseID(f.Author)
	if err != nil && strict {
		return nil, err
	}
	book.AuthorID = authorID
	for _, raw := range f.Genre {
		genreID, err := services.ParseID(raw)
		if err != nil {
			if strict {
				return nil, err
			}
			continue
		}
		book.Genres = append(book.Genres, models.Genre{ID: genreID})
	}
	return book, nil
}

type bookInstanceForm struct {
	Book    string `form:"book"`
	Imprint string `form:"imprint"`
	Status  string `form:"status"`
	DueBack string `form:"due_back"`
}

func (f *bookInstanceForm) sanitize() v.Errors {
	statuses := make([]string, 0, len(models.BookInstanceStatuses))
	for _, s := range models.BookInstanceStatuses {
		statuses = append(statuses, string(s))
	}

	val := v.New()
	f.Book = val.Field("book", f.Book, v.Trim, v.Required("Book must be specified"), v.Escape)
	f.Imprint = val.Field("imprint", f.Imprint, v.Trim, v.Required("Imprint must be specified"), v.Escape)
	f.Status = val.Optional("status", f.Status, v.Escape, v.OneOf("Invalid status", statuses...))
	f.DueBack = val.Optional("due_back", f.DueBack, v.ISO8601("Invalid date"))
	return val.Errors()
}

func (f *bookInstanceForm) bookInstance() (*models.BookInstance, error) {
	bookID, err := services.ParseID(f.Book)
	if err != nil {
		return nil, err
	}
	due, err := v.ParseOptionalDate(f.DueBack)
	if err != nil {
		return nil, err
	}
	return &models.BookInstance{
		BookID:  bookID,
		Imprint: f.Imprint,
		Status:  models.BookInstanceStatus(f.Status),
		DueBack: due,
	}, nil
}

// ─── Selection lists ──────────────────────────────────────────────────────────

type authorOption struct {
	models.Author
	Selected bool
}

func authorOptions(authors []models.Author, selected uuid.UUID) []authorOption {
	opts := make([]authorOption, 0, len(authors))
	for _, a := range authors {
		opts = append(opts, authorOption{Author: a, Selected: a.ID == selected})
	}
	return opts
}

type genreOption struct {
	models.Genre
	Checked bool
}

// genreOptions marks every genre whose id is among selected.
func genreOptions(genres []models.Genre, selected []uuid.UUID) []genreOption {
	chosen := make(map[uuid.UUID]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}
	opts := make([]genreOption, 0, len(genres))
	for _, g := range genres {
		opts = append(opts, genreOption{Genre: g, Checked: chosen[g.ID]})
	}
	return opts
}

type bookOption struct {
	models.Book
	Selected bool
}

func bookOptions(books []models.Book, selected string) []bookOption {
	opts := make([]bookOption, 0, len(books))
	for _, b := range books {
		opts = append(opts, bookOption{Book: b, Selected: b.ID.String() == selected})
	}
	return opts
}

type statusOption struct {
	Value    string
	Selected bool
}

func statusOptions(selected string) []statusOption {
	opts := make([]statusOption, 0, len(models.BookInstanceStatuses))
	for _, s := range models.BookInstanceStatuses {
		opts = append(opts, statusOption{Value: string(s), Selected: string(s) == selected})
	}
	return opts
}
