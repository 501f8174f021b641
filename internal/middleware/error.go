package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler recovers from handler panics and turns unhandled gin errors
// into a JSON error envelope. Handlers that already wrote a response are
// left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ErrorHandler] panic recovered: %v", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			status := c.Writer.Status()
			if status < 400 {
				status = http.StatusInternalServerError
			}
			log.Printf("[ErrorHandler] %s %s: %v", c.Request.Method, c.Request.URL.Path, c.Errors.Last())
			c.JSON(status, ErrorResponse{Error: c.Errors.Last().Error()})
		}
	}
}
