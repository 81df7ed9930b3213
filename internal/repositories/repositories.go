package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"locallibrary/internal/models"
)

type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	List(ctx context.Context) ([]models.Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type GenreRepository interface {
	Create(ctx context.Context, genre *models.Genre) error
	List(ctx context.Context) ([]models.Genre, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Genre, error)
	FindByName(ctx context.Context, name string) (*models.Genre, error)
	Count(ctx context.Context) (int64, error)
}

// BookRepository reads return the author and genre references expanded
// wherever a view needs them.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	List(ctx context.Context) ([]models.Book, error)
	ListTitles(ctx context.Context) ([]models.Book, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Book, error)
	ListByGenre(ctx context.Context, genreID uuid.UUID) ([]models.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Count(ctx context.Context) (int64, error)
}

type BookInstanceRepository interface {
	Create(ctx context.Context, instance *models.BookInstance) error
	List(ctx context.Context) ([]models.BookInstance, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]models.BookInstance, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.BookInstance, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.BookInstanceStatus) (int64, error)
}

// bookGenre is the join row behind Book.Genres. Position keeps the genres in
// the order they were submitted.
type bookGenre struct {
	BookID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	GenreID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position int       `gorm:"not null;default:0"`
}

func (bookGenre) TableName() string { return "book_genres" }

// concrete implementations

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, author *models.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

func (r *authorRepository) List(ctx context.Context) ([]models.Author, error) {
	var authors []models.Author
	if err := r.db.WithContext(ctx).Order("family_name ASC").Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *authorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	var author models.Author
	if err := r.db.WithContext(ctx).First(&author, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Author{}, "id = ?", id).Error
}

func (r *authorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Author{}).Count(&n).Error
	return n, err
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

func (r *genreRepository) List(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *genreRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindByName matches the name exactly (case-sensitive).
func (r *genreRepository) FindByName(ctx context.Context, name string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Genre{}).Count(&n).Error
	return n, err
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create inserts the book and its genre links in one transaction. Referenced
// genres are linked by id only, never upserted.
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(book).Error; err != nil {
			return err
		}
		return linkGenres(tx, book.ID, book.GenreIDs())
	})
}

// List fetches only title and author, with the author expanded.
func (r *bookRepository) List(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).
		Select("id", "title", "author_id").
		Preload("Author").
		Order("title ASC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) ListTitles(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Select("id", "title").Order("title ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).
		Select("id", "title", "summary", "author_id").
		Where("author_id = ?", authorID).
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) ListByGenre(ctx context.Context, genreID uuid.UUID) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID).
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// GetByID expands the author and returns the genres in their linked order.
func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	db := r.db.WithContext(ctx)

	var book models.Book
	if err := db.Preload("Author").First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}

	// Preload orders by the genres query, not the join rows, so the genres are
	// joined explicitly.
	var genres []models.Genre
	err := db.
		Joins("JOIN book_genres ON book_genres.genre_id = genres.id").
		Where("book_genres.book_id = ?", id).
		Order("book_genres.position ASC").
		Find(&genres).Error
	if err != nil {
		return nil, err
	}
	book.Genres = genres
	return &book, nil
}

// Update overwrites every field of the stored book identified by book.ID and
// replaces its genre links. It returns gorm.ErrRecordNotFound when no such book
// exists.
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ?", book.ID).
			Select("title", "author_id", "summary", "isbn").
			Updates(map[string]interface{}{
				"title":     book.Title,
				"author_id": book.AuthorID,
				"summary":   book.Summary,
				"isbn":      book.ISBN,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("book_id = ?", book.ID).Delete(&bookGenre{}).Error; err != nil {
			return err
		}
		return linkGenres(tx, book.ID, book.GenreIDs())
	})
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&n).Error
	return n, err
}

func linkGenres(tx *gorm.DB, bookID uuid.UUID, genreIDs []uuid.UUID) error {
	if len(genreIDs) == 0 {
		return nil
	}
	rows := make([]bookGenre, 0, len(genreIDs))
	seen := make(map[uuid.UUID]bool, len(genreIDs))
	for _, id := range genreIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, bookGenre{BookID: bookID, GenreID: id, Position: len(rows)})
	}
	return tx.Create(&rows).Error
}

type bookInstanceRepository struct {
	db *gorm.DB
}

func NewBookInstanceRepository(db *gorm.DB) BookInstanceRepository {
	return &bookInstanceRepository{db: db}
}

func (r *bookInstanceRepository) Create(ctx context.Context, instance *models.BookInstance) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(instance).Error
}

func (r *bookInstanceRepository) List(ctx context.Context) ([]models.BookInstance, error) {
	var instances []models.BookInstance
	if err := r.db.WithContext(ctx).Preload("Book").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *bookInstanceRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]models.BookInstance, error) {
	var instances []models.BookInstance
	if err := r.db.WithContext(ctx).Where("book_id = ?", bookID).Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *bookInstanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BookInstance, error) {
	var instance models.BookInstance
	if err := r.db.WithContext(ctx).Preload("Book").First(&instance, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *bookInstanceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BookInstance{}).Count(&n).Error
	return n, err
}

func (r *bookInstanceRepository) CountByStatus(ctx context.Context, status models.BookInstanceStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.BookInstance{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}
