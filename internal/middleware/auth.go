package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-management-api/internal/auth"
	"github.com/yukikurage/todo-management-api/internal/constants"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
)

const bearerPrefix = "Bearer "

// Authenticator validates a bearer token. It is satisfied by services.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireAuth checks the Authorization header for a valid, unrevoked bearer token
func RequireAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			apierrors.Unauthorized(c, "")
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyTokenID, claims.ID)
		c.Set(constants.ContextKeyTokenExp, claims.Expiry())
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetToken returns the ID and expiry of the token that authenticated the request.
func GetToken(c *gin.Context) (string, time.Time, bool) {
	tokenID := c.GetString(constants.ContextKeyTokenID)
	if tokenID == "" {
		return "", time.Time{}, false
	}
	return tokenID, c.GetTime(constants.ContextKeyTokenExp), true
}
