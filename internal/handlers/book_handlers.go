package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"locallibrary/internal/models"
	"locallibrary/internal/services"
	"locallibrary/internal/validation"
)

const bookListPath = "/catalog/books"

func (h *CatalogHandler) bookList(c *gin.Context) {
	books, err := h.svc.ListBooks(queryContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_list", gin.H{
		"title":     "Book List",
		"book_list": books,
	})
}

func (h *CatalogHandler) bookDetail(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	detail, err := h.svc.BookDetail(queryContext(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_detail", gin.H{
		"title":          detail.Book.Title,
		"book":           detail.Book,
		"book_instances": detail.Instances,
	})
}

func (h *CatalogHandler) bookCreateForm(c *gin.Context) {
	options, err := h.svc.BookFormOptions(queryContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_form", gin.H{
		"title":   "Create Book",
		"authors": authorOptions(options.Authors, uuid.Nil),
		"genres":  genreOptions(options.Genres, nil),
	})
}

func (h *CatalogHandler) bookCreate(c *gin.Context) {
	h.submitBook(c, "Create Book", uuid.Nil)
}

func (h *CatalogHandler) bookUpdateForm(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	form, err := h.svc.BookUpdateForm(queryContext(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_form", gin.H{
		"title":   "Update Book",
		"book":    form.Book,
		"authors": authorOptions(form.Authors, form.Book.AuthorID),
		"genres":  genreOptions(form.Genres, form.Book.GenreIDs()),
	})
}

func (h *CatalogHandler) bookUpdate(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	h.submitBook(c, "Update Book", id)
}

// submitBook handles create (id == uuid.Nil) and update submissions alike:
// normalize, validate, then either show the form again or persist and
// redirect to the book.
func (h *CatalogHandler) submitBook(c *gin.Context, title string, id uuid.UUID) {
	var form bookForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, err)
		return
	}

	if errs := form.sanitize(); errs != nil {
		candidate, _ := form.book(id, false)
		h.renderBookForm(c, title, candidate, errs)
		return
	}

	book, err := form.book(id, true)
	if err != nil {
		fail(c, err)
		return
	}

	ctx := queryContext(c)
	if id == uuid.Nil {
		err = h.svc.CreateBook(ctx, book)
	} else {
		err = h.svc.UpdateBook(ctx, book)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, book.URL())
}

// renderBookForm fetches the selection lists only after validation has failed.
func (h *CatalogHandler) renderBookForm(c *gin.Context, title string, book *models.Book, errs validation.Errors) {
	options, err := h.svc.BookFormOptions(queryContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_form", gin.H{
		"title":   title,
		"book":    book,
		"authors": authorOptions(options.Authors, book.AuthorID),
		"genres":  genreOptions(options.Genres, book.GenreIDs()),
		"errors":  errs,
	})
}

// bookDeleteForm sends a missing book back to the list instead of a 404.
func (h *CatalogHandler) bookDeleteForm(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	detail, err := h.svc.BookDetail(queryContext(c), id)
	if errors.Is(err, services.ErrBookNotFound) {
		c.Redirect(http.StatusFound, bookListPath)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_delete", gin.H{
		"title":          "Delete Book",
		"book":           detail.Book,
		"book_instances": detail.Instances,
	})
}
