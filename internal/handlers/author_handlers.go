package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"locallibrary/internal/services"
)

const authorListPath = "/catalog/authors"

func (h *CatalogHandler) authorList(c *gin.Context) {
	authors, err := h.svc.ListAuthors(queryContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "author_list", gin.H{
		"title":       "Author List",
		"author_list": authors,
	})
}

func (h *CatalogHandler) authorDetail(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	detail, err := h.svc.AuthorDetail(queryContext(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "author_detail", gin.H{
		"title":        "Author Detail",
		"author":       detail.Author,
		"author_books": detail.Books,
	})
}

func (h *CatalogHandler) authorCreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "author_form", gin.H{
		"title": "Create Author",
	})
}

func (h *CatalogHandler) authorCreate(c *gin.Context) {
	var form authorForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, err)
		return
	}

	if errs := form.sanitize(); errs != nil {
		c.HTML(http.StatusOK, "author_form", gin.H{
			"title":  "Create Author",
			"author": form,
			"errors": errs,
		})
		return
	}

	author, err := form.author()
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.svc.CreateAuthor(queryContext(c), author); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, author.URL())
}

// authorDeleteForm sends a missing author back to the list instead of a 404.
func (h *CatalogHandler) authorDeleteForm(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	detail, err := h.svc.AuthorDetail(queryContext(c), id)
	if errors.Is(err, services.ErrAuthorNotFound) {
		c.Redirect(http.StatusFound, authorListPath)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "author_delete", gin.H{
		"title":        "Delete Author",
		"author":       detail.Author,
		"author_books": detail.Books,
	})
}

// authorDelete takes the author id from the submitted form, not the path.
func (h *CatalogHandler) authorDelete(c *gin.Context) {
	id, err := services.ParseID(c.PostForm("authorid"))
	if err != nil {
		fail(c, err)
		return
	}
	detail, err := h.svc.DeleteAuthor(queryContext(c), id)
	if errors.Is(err, services.ErrAuthorHasBooks) {
		c.HTML(http.StatusOK, "author_delete", gin.H{
			"title":        "Delete Author",
			"author":       detail.Author,
			"author_books": detail.Books,
		})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, authorListPath)
}
