package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUintParam_ValidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var captured uint
	router.GET("/exams/:id", ExtractUintParam("id", "examID"), func(c *gin.Context) {
		captured = c.MustGet("examID").(uint)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/exams/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), captured)
}

func TestExtractUintParam_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlerCalled := false
	router.GET("/exams/:id", ExtractUintParam("id", "examID"), func(c *gin.Context) {
		handlerCalled = true
	})

	for _, id := range []string{"abc", "-5", "1.5"} {
		req := httptest.NewRequest(http.MethodGet, "/exams/"+id, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "ID %q должен быть отклонен", id)
	}

	assert.False(t, handlerCalled, "Обработчик не должен вызываться при невалидном ID")
}
