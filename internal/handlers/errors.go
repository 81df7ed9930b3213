package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"locallibrary/internal/services"
)

var errRouteNotFound = errors.New("page not found")

// ErrorPages renders the error view for the last error a handler pushed with
// c.Error. Not-found errors become 404; everything else is a 500 whose message
// stays generic. In development the error text is shown as well.
func ErrorPages(development bool, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		status := http.StatusInternalServerError
		message := http.StatusText(status)
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, errRouteNotFound) {
			status = http.StatusNotFound
			message = err.Error()
		}

		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}

		data := gin.H{
			"title":   message,
			"message": message,
			"status":  status,
		}
		if development {
			data["detail"] = err.Error()
		}
		c.HTML(status, "error", data)
	}
}
