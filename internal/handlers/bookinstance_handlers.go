package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"locallibrary/internal/models"
	"locallibrary/internal/services"
)

const bookInstanceListPath = "/catalog/bookinstances"

func (h *CatalogHandler) bookInstanceList(c *gin.Context) {
	instances, err := h.svc.ListBookInstances(queryContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_list", gin.H{
		"title":             "Book Instance List",
		"bookinstance_list": instances,
	})
}

func (h *CatalogHandler) bookInstanceDetail(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	instance, err := h.svc.BookInstanceDetail(queryContext(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_detail", gin.H{
		"title":        copyTitle(instance),
		"bookinstance": instance,
	})
}

func (h *CatalogHandler) bookInstanceCreateForm(c *gin.Context) {
	books, err := h.svc.ListBookTitles(queryContext(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_form", gin.H{
		"title":     "Create BookInstance",
		"book_list": bookOptions(books, ""),
		"statuses":  statusOptions(""),
	})
}

func (h *CatalogHandler) bookInstanceCreate(c *gin.Context) {
	var form bookInstanceForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, err)
		return
	}

	if errs := form.sanitize(); errs != nil {
		books, err := h.svc.ListBookTitles(queryContext(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.HTML(http.StatusOK, "bookinstance_form", gin.H{
			"title":        "Create BookInstance",
			"book_list":    bookOptions(books, form.Book),
			"statuses":     statusOptions(form.Status),
			"bookinstance": form,
			"errors":       errs,
		})
		return
	}

	instance, err := form.bookInstance()
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.svc.CreateBookInstance(queryContext(c), instance); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, instance.URL())
}

// bookInstanceDeleteForm sends a missing copy back to the list instead of a 404.
func (h *CatalogHandler) bookInstanceDeleteForm(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	instance, err := h.svc.BookInstanceDetail(queryContext(c), id)
	if errors.Is(err, services.ErrBookInstanceNotFound) {
		c.Redirect(http.StatusFound, bookInstanceListPath)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_delete", gin.H{
		"title":        copyTitle(instance),
		"bookinstance": instance,
	})
}

func copyTitle(instance *models.BookInstance) string {
	if instance.Book == nil {
		return "Copy"
	}
	return "Copy: " + instance.Book.Title
}
