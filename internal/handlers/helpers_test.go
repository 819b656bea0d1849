package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
	"github.com/yukikurage/todo-management-api/internal/services"
	"github.com/yukikurage/todo-management-api/internal/validation"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", apierrors.NewValidationError("title", "is required"), http.StatusUnprocessableEntity, "Validation failed"},
		{"wrapped validation", fmt.Errorf("create: %w", services.ErrInvalidCategory), http.StatusUnprocessableEntity, "Validation failed"},
		{"todo not found", services.ErrTodoNotFound, http.StatusNotFound, "Todo not found"},
		{"category not found", services.ErrCategoryNotFound, http.StatusNotFound, "Category not found"},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"unauthenticated", apierrors.ErrUnauthenticated, http.StatusUnauthorized, "Unauthenticated"},
		{"missing q", services.ErrSearchQueryRequired, http.StatusBadRequest, "The q query parameter is required"},
		{"ai disabled", services.ErrAIServiceNotConfigured, http.StatusServiceUnavailable, "AI service is not configured"},
		{"unexpected", errors.New("database is on fire"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), `"message":"`+tt.message+`"`)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestBindJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validation.Register()

	type request struct {
		Name string `json:"name" binding:"required,notblank"`
	}

	tests := []struct {
		name string
		body string
		ok   bool
		code int
	}{
		{"valid", `{"name": "Work"}`, true, http.StatusOK},
		{"blank", `{"name": "   "}`, false, http.StatusUnprocessableEntity},
		{"missing", `{}`, false, http.StatusUnprocessableEntity},
		{"wrong type", `{"name": 1}`, false, http.StatusUnprocessableEntity},
		{"truncated", `{"name": `, false, http.StatusBadRequest},
		{"empty", ``, false, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req request
			assert.Equal(t, tt.ok, bindJSON(c, &req))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for raw, want := range map[string]bool{"1": true, "42": true, "0": false, "-1": false, "abc": false, "": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, ok := pathID(c, "Todo not found")
		assert.Equal(t, want, ok, raw)
		if !want {
			assert.Equal(t, http.StatusNotFound, w.Code, raw)
		}
	}
}
