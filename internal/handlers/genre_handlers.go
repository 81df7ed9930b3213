package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"locallibrary/internal/services"
)

func (h *CatalogHandler) genreList(c *gin.Context) {
	genres, err := h.svc.ListGenres(queryContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "genre_list", gin.H{
		"title":      "Genre List",
		"genre_list": genres,
	})
}

func (h *CatalogHandler) genreDetail(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	detail, err := h.svc.GenreDetail(queryContext(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "genre_detail", gin.H{
		"title":       "Genre Detail",
		"genre":       detail.Genre,
		"genre_books": detail.Books,
	})
}

func (h *CatalogHandler) genreCreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "genre_form", gin.H{
		"title": "Create Genre",
	})
}

// genreCreate redirects to an existing genre of the same name rather than
// storing a duplicate.
func (h *CatalogHandler) genreCreate(c *gin.Context) {
	var form genreForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, err)
		return
	}

	if errs := form.sanitize(); errs != nil {
		c.HTML(http.StatusOK, "genre_form", gin.H{
			"title":  "Create Genre",
			"genre":  form,
			"errors": errs,
		})
		return
	}

	genre, _, err := h.svc.CreateGenre(queryContext(c), form.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, genre.URL())
}
