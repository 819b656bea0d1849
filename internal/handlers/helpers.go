package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
	"github.com/yukikurage/todo-management-api/internal/middleware"
	"github.com/yukikurage/todo-management-api/internal/services"
	"github.com/yukikurage/todo-management-api/internal/validation"
)

// respondError maps a service error onto the error envelope.
func respondError(c *gin.Context, err error) {
	var verr *apierrors.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr.Fields)
	case errors.Is(err, services.ErrTodoNotFound):
		apierrors.NotFound(c, "Todo not found")
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, "Category not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, apierrors.ErrNotFound):
		apierrors.NotFound(c, "")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, apierrors.ErrUnauthenticated):
		apierrors.Unauthorized(c, "")
	case errors.Is(err, services.ErrSearchQueryRequired):
		apierrors.BadRequest(c, "The q query parameter is required")
	case errors.Is(err, apierrors.ErrBadRequest):
		apierrors.BadRequest(c, "")
	case errors.Is(err, apierrors.ErrConflict):
		apierrors.Conflict(c, "")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	case errors.Is(err, apierrors.ErrServiceUnavailable):
		apierrors.ServiceUnavailable(c, "")
	default:
		apierrors.InternalError(c, err)
	}
}

// bindJSON decodes and validates the request body into req. On failure the
// response has been written and false is returned.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	fields, err := validation.Translate(err)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}
	apierrors.ValidationFailed(c, fields)
	return false
}

// pathID parses a positive numeric path parameter. Anything else is reported
// as notFound, the same as an id that does not exist.
func pathID(c *gin.Context, notFound string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.NotFound(c, notFound)
		return 0, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
	}
	return userID, exists
}
