package handlers

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"locallibrary/internal/services"
	"locallibrary/web"
)

type CatalogHandler struct {
	svc services.CatalogService
	log *zap.Logger
}

// Options configures NewRouter.
type Options struct {
	// Development exposes error details on the error page.
	Development bool
	Logger      *zap.Logger
}

// NewRouter builds the gin engine with templates, middleware and every route.
func NewRouter(svc services.CatalogService, opts Options) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tmpl, err := template.ParseFS(web.Templates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		gin.Recovery(),
		RequestID(),
		RequestLogger(log),
		SecureHeaders(),
		ErrorPages(opts.Development, log),
	)
	r.StaticFS("/stylesheets", http.FS(static))

	RegisterRoutes(r, svc, log)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, svc services.CatalogService, log *zap.Logger) {
	h := &CatalogHandler{svc: svc, log: log}

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog")
	})
	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(errRouteNotFound)
	})

	wiki := r.Group("/wiki")
	wiki.GET("", plainText("Wiki home page"))
	wiki.GET("/", plainText("Wiki home page"))
	wiki.GET("/about", plainText("About this wiki"))

	catalog := r.Group("/catalog")
	catalog.GET("", h.index)
	catalog.GET("/", h.index)

	// Authors
	catalog.GET("/author/create", h.authorCreateForm)
	catalog.POST("/author/create", h.authorCreate)
	catalog.GET("/author/:id/delete", h.authorDeleteForm)
	catalog.POST("/author/:id/delete", h.authorDelete)
	catalog.GET("/author/:id/update", notImplemented("Author update GET"))
	catalog.POST("/author/:id/update", notImplemented("Author update POST"))
	catalog.GET("/author/:id", h.authorDetail)
	catalog.GET("/authors", h.authorList)

	// Genres
	catalog.GET("/genre/create", h.genreCreateForm)
	catalog.POST("/genre/create", h.genreCreate)
	catalog.GET("/genre/:id/delete", notImplemented("Genre delete GET"))
	catalog.POST("/genre/:id/delete", notImplemented("Genre delete POST"))
	catalog.GET("/genre/:id/update", notImplemented("Genre update GET"))
	catalog.POST("/genre/:id/update", notImplemented("Genre update POST"))
	catalog.GET("/genre/:id", h.genreDetail)
	catalog.GET("/genres", h.genreList)

	// Books
	catalog.GET("/book/create", h.bookCreateForm)
	catalog.POST("/book/create", h.bookCreate)
	catalog.GET("/book/:id/delete", h.bookDeleteForm)
	catalog.POST("/book/:id/delete", notImplemented("Book delete POST"))
	catalog.GET("/book/:id/update", h.bookUpdateForm)
	catalog.POST("/book/:id/update", h.bookUpdate)
	catalog.GET("/book/:id", h.bookDetail)
	catalog.GET("/books", h.bookList)

	// Book instances
	catalog.GET("/bookinstance/create", h.bookInstanceCreateForm)
	catalog.POST("/bookinstance/create", h.bookInstanceCreate)
	catalog.GET("/bookinstance/:id/delete", h.bookInstanceDeleteForm)
	catalog.POST("/bookinstance/:id/delete", notImplemented("BookInstance delete POST"))
	catalog.GET("/bookinstance/:id/update", notImplemented("BookInstance update GET"))
	catalog.POST("/bookinstance/:id/update", notImplemented("BookInstance update POST"))
	catalog.GET("/bookinstance/:id", h.bookInstanceDetail)
	catalog.GET("/bookinstances", h.bookInstanceList)
}

func (h *CatalogHandler) index(c *gin.Context) {
	counts, err := h.svc.Dashboard(queryContext(c))
	c.HTML(http.StatusOK, "index", gin.H{
		"title": "Local Library Home",
		"error": err,
		"data":  counts,
	})
}

// queryContext detaches the queries from the client connection: a request
// that is abandoned still runs its queries to completion.
func queryContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// fail hands err to ErrorPages and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func plainText(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func notImplemented(what string) gin.HandlerFunc {
	return plainText("NOT IMPLEMENTED: " + what)
}
