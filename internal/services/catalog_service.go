package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"locallibrary/internal/models"
	"locallibrary/internal/repositories"
)

// ─── Sentinel Errors ──────────────────────────────────────────────────────────

var (
	// ErrNotFound is wrapped by every per-entity not-found error.
	ErrNotFound = errors.New("not found")

	ErrAuthorNotFound       = fmt.Errorf("author %w", ErrNotFound)
	ErrGenreNotFound        = fmt.Errorf("genre %w", ErrNotFound)
	ErrBookNotFound         = fmt.Errorf("book %w", ErrNotFound)
	ErrBookInstanceNotFound = fmt.Errorf("book copy %w", ErrNotFound)

	// ErrAuthorHasBooks is returned by DeleteAuthor when books still reference
	// the author. Nothing is deleted.
	ErrAuthorHasBooks = errors.New("author has books")

	// ErrMalformedID is returned by ParseID for anything that is not a UUID.
	ErrMalformedID = errors.New("malformed identifier")
)

// ParseID parses a path or form identifier.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w %q", ErrMalformedID, raw)
	}
	return id, nil
}

// ─── Read Models ──────────────────────────────────────────────────────────────

// Counts holds the dashboard totals. A nil field is a count that failed.
type Counts struct {
	Books                  *int64
	BookInstances          *int64
	BookInstancesAvailable *int64
	Authors                *int64
	Genres                 *int64
}

type AuthorDetail struct {
	Author *models.Author
	Books  []models.Book
}

type GenreDetail struct {
	Genre *models.Genre
	Books []models.Book
}

type BookDetail struct {
	Book      *models.Book
	Instances []models.BookInstance
}

// BookForm is the reference data a book form offers for selection.
type BookForm struct {
	Book    *models.Book
	Authors []models.Author
	Genres  []models.Genre
}

// ─── Service Interface ────────────────────────────────────────────────────────

// CatalogService defines the catalog operations behind the web handlers.
type CatalogService interface {
	Dashboard(ctx context.Context) (Counts, error)

	ListAuthors(ctx context.Context) ([]models.Author, error)
	AuthorDetail(ctx context.Context, id uuid.UUID) (*AuthorDetail, error)
	CreateAuthor(ctx context.Context, author *models.Author) error
	DeleteAuthor(ctx context.Context, id uuid.UUID) (*AuthorDetail, error)

	ListGenres(ctx context.Context) ([]models.Genre, error)
	GenreDetail(ctx context.Context, id uuid.UUID) (*GenreDetail, error)
	CreateGenre(ctx context.Context, name string) (*models.Genre, bool, error)

	ListBooks(ctx context.Context) ([]models.Book, error)
	BookDetail(ctx context.Context, id uuid.UUID) (*BookDetail, error)
	BookFormOptions(ctx context.Context) (*BookForm, error)
	BookUpdateForm(ctx context.Context, id uuid.UUID) (*BookForm, error)
	CreateBook(ctx context.Context, book *models.Book) error
	UpdateBook(ctx context.Context, book *models.Book) error

	ListBookInstances(ctx context.Context) ([]models.BookInstance, error)
	BookInstanceDetail(ctx context.Context, id uuid.UUID) (*models.BookInstance, error)
	ListBookTitles(ctx context.Context) ([]models.Book, error)
	CreateBookInstance(ctx context.Context, instance *models.BookInstance) error
}

// ─── Implementation ───────────────────────────────────────────────────────────

type catalogService struct {
	log          *zap.Logger
	authorRepo   repositories.AuthorRepository
	genreRepo    repositories.GenreRepository
	bookRepo     repositories.BookRepository
	instanceRepo repositories.BookInstanceRepository
}

// NewCatalogService wires up all dependencies and returns a CatalogService.
func NewCatalogService(
	log *zap.Logger,
	authorRepo repositories.AuthorRepository,
	genreRepo repositories.GenreRepository,
	bookRepo repositories.BookRepository,
	instanceRepo repositories.BookInstanceRepository,
) CatalogService {
	return &catalogService{
		log:          log,
		authorRepo:   authorRepo,
		genreRepo:    genreRepo,
		bookRepo:     bookRepo,
		instanceRepo: instanceRepo,
	}
}

// ─── Dashboard ────────────────────────────────────────────────────────────────

// Dashboard runs the five counts concurrently and waits for all of them. The
// returned error is the first failure; counts that resolved are still set.
func (s *catalogService) Dashboard(ctx context.Context) (Counts, error) {
	var counts Counts
	var g errgroup.Group

	count := func(dst **int64, name string, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			if err != nil {
				s.log.Error("Dashboard: count failed", zap.String("count", name), zap.Error(err))
				return fmt.Errorf("count %s: %w", name, err)
			}
			*dst = &n
			return nil
		})
	}
	count(&counts.Books, "books", s.bookRepo.Count)
	count(&counts.BookInstances, "book_instances", s.instanceRepo.Count)
	count(&counts.BookInstancesAvailable, "book_instances_available", func(ctx context.Context) (int64, error) {
		return s.instanceRepo.CountByStatus(ctx, models.BookInstanceStatusAvailable)
	})
	count(&counts.Authors, "authors", s.authorRepo.Count)
	count(&counts.Genres, "genres", s.genreRepo.Count)

	err := g.Wait()
	return counts, err
}

// ─── Authors ──────────────────────────────────────────────────────────────────

// ListAuthors returns all authors sorted by family name.
func (s *catalogService) ListAuthors(ctx context.Context) ([]models.Author, error) {
	authors, err := s.authorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// AuthorDetail fetches the author and the books referencing it concurrently.
func (s *catalogService) AuthorDetail(ctx context.Context, id uuid.UUID) (*AuthorDetail, error) {
	var detail AuthorDetail
	var g errgroup.Group
	g.Go(func() error {
		author, err := s.authorRepo.GetByID(ctx, id)
		if err != nil {
			return translate(err, ErrAuthorNotFound, "get author")
		}
		detail.Author = author
		return nil
	})
	g.Go(func() error {
		books, err := s.bookRepo.ListByAuthor(ctx, id)
		if err != nil {
			return fmt.Errorf("list books by author: %w", err)
		}
		detail.Books = books
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *catalogService) CreateAuthor(ctx context.Context, author *models.Author) error {
	if err := s.authorRepo.Create(ctx, author); err != nil {
		s.log.Error("CreateAuthor: failed to create author", zap.Error(err))
		return fmt.Errorf("create author: %w", err)
	}
	s.log.Info("CreateAuthor: created author",
		zap.String("id", author.ID.String()),
		zap.String("name", author.Name()))
	return nil
}

// DeleteAuthor removes the author unless books still reference it, in which
// case it returns the author with those books and ErrAuthorHasBooks. Deleting
// an author that does not exist succeeds.
//
// The book check and the delete are separate statements; a book created for
// the author in between is not detected.
func (s *catalogService) DeleteAuthor(ctx context.Context, id uuid.UUID) (*AuthorDetail, error) {
	detail, err := s.AuthorDetail(ctx, id)
	if err != nil && !errors.Is(err, ErrAuthorNotFound) {
		return nil, err
	}
	if detail != nil && len(detail.Books) > 0 {
		s.log.Warn("DeleteAuthor: author still has books",
			zap.String("id", id.String()),
			zap.Int("books", len(detail.Books)))
		return detail, ErrAuthorHasBooks
	}
	if err := s.authorRepo.Delete(ctx, id); err != nil {
		s.log.Error("DeleteAuthor: failed to delete author", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("delete author: %w", err)
	}
	s.log.Info("DeleteAuthor: deleted author", zap.String("id", id.String()))
	return detail, nil
}

// ─── Genres ───────────────────────────────────────────────────────────────────

// ListGenres returns all genres sorted by name.
func (s *catalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	genres, err := s.genreRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// GenreDetail fetches the genre and the books tagged with it concurrently.
func (s *catalogService) GenreDetail(ctx context.Context, id uuid.UUID) (*GenreDetail, error) {
	var detail GenreDetail
	var g errgroup.Group
	g.Go(func() error {
		genre, err := s.genreRepo.GetByID(ctx, id)
		if err != nil {
			return translate(err, ErrGenreNotFound, "get genre")
		}
		detail.Genre = genre
		return nil
	})
	g.Go(func() error {
		books, err := s.bookRepo.ListByGenre(ctx, id)
		if err != nil {
			return fmt.Errorf("list books by genre: %w", err)
		}
		detail.Books = books
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateGenre returns the existing genre with exactly this name if there is
// one (created=false); otherwise it stores a new genre (created=true). The
// lookup and insert are not atomic.
func (s *catalogService) CreateGenre(ctx context.Context, name string) (*models.Genre, bool, error) {
	existing, err := s.genreRepo.FindByName(ctx, name)
	if err == nil {
		s.log.Info("CreateGenre: genre already exists",
			zap.String("id", existing.ID.String()),
			zap.String("name", name))
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find genre by name: %w", err)
	}

	genre := &models.Genre{Name: name}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		s.log.Error("CreateGenre: failed to create genre", zap.String("name", name), zap.Error(err))
		return nil, false, fmt.Errorf("create genre: %w", err)
	}
	s.log.Info("CreateGenre: created genre", zap.String("id", genre.ID.String()), zap.String("name", name))
	return genre, true, nil
}

// ─── Books ────────────────────────────────────────────────────────────────────

// ListBooks returns every book's title and expanded author.
func (s *catalogService) ListBooks(ctx context.Context) ([]models.Book, error) {
	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// BookDetail fetches the expanded book and its copies concurrently.
func (s *catalogService) BookDetail(ctx context.Context, id uuid.UUID) (*BookDetail, error) {
	var detail BookDetail
	var g errgroup.Group
	g.Go(func() error {
		book, err := s.bookRepo.GetByID(ctx, id)
		if err != nil {
			return translate(err, ErrBookNotFound, "get book")
		}
		detail.Book = book
		return nil
	})
	g.Go(func() error {
		instances, err := s.instanceRepo.ListByBook(ctx, id)
		if err != nil {
			return fmt.Errorf("list book instances by book: %w", err)
		}
		detail.Instances = instances
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &detail, nil
}

// BookFormOptions fetches all authors and genres concurrently.
func (s *catalogService) BookFormOptions(ctx context.Context) (*BookForm, error) {
	var form BookForm
	var g errgroup.Group
	s.loadBookFormOptions(ctx, &g, &form)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &form, nil
}

// BookUpdateForm fetches the expanded book together with all authors and genres.
func (s *catalogService) BookUpdateForm(ctx context.Context, id uuid.UUID) (*BookForm, error) {
	var form BookForm
	var g errgroup.Group
	g.Go(func() error {
		book, err := s.bookRepo.GetByID(ctx, id)
		if err != nil {
			return translate(err, ErrBookNotFound, "get book")
		}
		form.Book = book
		return nil
	})
	s.loadBookFormOptions(ctx, &g, &form)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &form, nil
}

func (s *catalogService) loadBookFormOptions(ctx context.Context, g *errgroup.Group, form *BookForm) {
	g.Go(func() error {
		authors, err := s.authorRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list authors: %w", err)
		}
		form.Authors = authors
		return nil
	})
	g.Go(func() error {
		genres, err := s.genreRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list genres: %w", err)
		}
		form.Genres = genres
		return nil
	})
}

func (s *catalogService) CreateBook(ctx context.Context, book *models.Book) error {
	if err := s.bookRepo.Create(ctx, book); err != nil {
		s.log.Error("CreateBook: failed to create book", zap.String("title", book.Title), zap.Error(err))
		return fmt.Errorf("create book: %w", err)
	}
	s.log.Info("CreateBook: created book",
		zap.String("id", book.ID.String()),
		zap.String("title", book.Title),
		zap.Int("genres", len(book.Genres)))
	return nil
}

// UpdateBook overwrites the stored book with the same ID, including its genre
// set. Applying the same update twice leaves the same record.
func (s *catalogService) UpdateBook(ctx context.Context, book *models.Book) error {
	if err := s.bookRepo.Update(ctx, book); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		s.log.Error("UpdateBook: failed to update book", zap.String("id", book.ID.String()), zap.Error(err))
		return fmt.Errorf("update book: %w", err)
	}
	s.log.Info("UpdateBook: updated book", zap.String("id", book.ID.String()), zap.String("title", book.Title))
	return nil
}

// ─── Book Instances ───────────────────────────────────────────────────────────

// ListBookInstances returns every copy with its book expanded.
func (s *catalogService) ListBookInstances(ctx context.Context) ([]models.BookInstance, error) {
	instances, err := s.instanceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list book instances: %w", err)
	}
	return instances, nil
}

func (s *catalogService) BookInstanceDetail(ctx context.Context, id uuid.UUID) (*models.BookInstance, error) {
	instance, err := s.instanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrBookInstanceNotFound, "get book instance")
	}
	return instance, nil
}

// ListBookTitles returns id and title of every book, for selection lists.
func (s *catalogService) ListBookTitles(ctx context.Context) ([]models.Book, error) {
	books, err := s.bookRepo.ListTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list book titles: %w", err)
	}
	return books, nil
}

// CreateBookInstance stores a new copy. An empty status defaults to Maintenance.
func (s *catalogService) CreateBookInstance(ctx context.Context, instance *models.BookInstance) error {
	if instance.Status == "" {
		instance.Status = models.BookInstanceStatusMaintenance
	}
	if err := s.instanceRepo.Create(ctx, instance); err != nil {
		s.log.Error("CreateBookInstance: failed to create book instance",
			zap.String("book_id", instance.BookID.String()), zap.Error(err))
		return fmt.Errorf("create book instance: %w", err)
	}
	s.log.Info("CreateBookInstance: created book instance",
		zap.String("id", instance.ID.String()),
		zap.String("book_id", instance.BookID.String()),
		zap.String("status", string(instance.Status)))
	return nil
}

// ─── Internal Helpers ─────────────────────────────────────────────────────────

// translate maps gorm's not-found error to notFound and wraps anything else.
func translate(err, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
