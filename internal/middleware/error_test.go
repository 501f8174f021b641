package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("recovers from panic", func(t *testing.T) {
		router := gin.New()
		router.Use(ErrorHandler())
		router.GET("/boom", func(c *gin.Context) {
			panic("something went wrong")
		})

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/boom", nil)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
	})

	t.Run("renders unhandled gin errors", func(t *testing.T) {
		router := gin.New()
		router.Use(ErrorHandler())
		router.GET("/fail", func(c *gin.Context) {
			c.Status(http.StatusBadRequest)
			_ = c.Error(errors.New("bad input"))
		})

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/fail", nil)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"bad input"}`, rr.Body.String())
	})

	t.Run("leaves written responses alone", func(t *testing.T) {
		router := gin.New()
		router.Use(ErrorHandler())
		router.GET("/ok", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ok", nil)
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})
}
