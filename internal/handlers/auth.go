package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-management-api/internal/dto"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
	"github.com/yukikurage/todo-management-api/internal/middleware"
	"github.com/yukikurage/todo-management-api/internal/response"
	"github.com/yukikurage/todo-management-api/internal/services"
)

const tokenTypeBearer = "Bearer"

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an account and returns an access token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, "User registered successfully", toAuthResponse(result))
}

// Login authenticates a user and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Login successful", toAuthResponse(result))
}

// Logout revokes the token used for this request.
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, expiresAt, ok := middleware.GetToken(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), tokenID, expiresAt); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Logged out successfully", nil)
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "User retrieved successfully", dto.ToUserDTO(*user))
}

// UpdateProfile changes the authenticated user's name, email or password.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Profile updated successfully", dto.ToUserDTO(*user))
}

func toAuthResponse(result *services.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:        dto.ToUserDTO(*result.User),
		AccessToken: result.Token.Token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   result.Token.ExpiresAt,
	}
}
