package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/todo-management-api/internal/auth"
	"github.com/yukikurage/todo-management-api/internal/constants"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
	"github.com/yukikurage/todo-management-api/internal/models"
	"github.com/yukikurage/todo-management-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials   = fmt.Errorf("invalid email or password: %w", apierrors.ErrUnauthenticated)
	ErrUserNotFound         = fmt.Errorf("user %w", apierrors.ErrNotFound)
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.JWTService, tokenStore auth.TokenStoreInterface) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		tokenStore: tokenStore,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput is a partial profile update. Nil fields are unchanged.
type UpdateProfileInput struct {
	Name                 *string
	Email                *string
	Password             *string
	PasswordConfirmation *string
}

// AuthResult is an authenticated user and a freshly issued access token.
type AuthResult struct {
	User  *models.User
	Token auth.IssuedToken
}

// Register creates a new user and issues a token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	verr := &apierrors.ValidationError{}
	if name == "" {
		verr.Add("name", "is required")
	}
	if email == "" {
		verr.Add("email", "is required")
	}
	checkPassword(verr, input.Password)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.ensureEmailAvailable(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.NewValidationError("email", "has already been taken")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Logout revokes the token identified by tokenID until it expires.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.tokenStore.Revoke(ctx, tokenID, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Authenticate validates a bearer token and returns its claims.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierrors.ErrUnauthenticated, err)
	}
	if s.tokenStore.IsRevoked(ctx, claims.ID) {
		return nil, fmt.Errorf("%w: token revoked", apierrors.ErrUnauthenticated)
	}
	return claims, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes name, email or password of the user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, input UpdateProfileInput) (*models.User, error) {
	verr := &apierrors.ValidationError{}
	fields := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			verr.Add("name", "is required")
		}
		fields["name"] = name
	}
	var email string
	if input.Email != nil {
		email = normalizeEmail(*input.Email)
		if email == "" {
			verr.Add("email", "is required")
		}
		fields["email"] = email
	}
	if input.Password != nil {
		checkPassword(verr, *input.Password)
		if input.PasswordConfirmation == nil || *input.PasswordConfirmation != *input.Password {
			verr.Add("password_confirmation", "confirmation does not match")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if input.Email != nil {
		if err := s.ensureEmailAvailable(ctx, email, userID); err != nil {
			return nil, err
		}
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.NewValidationError("email", "has already been taken")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetUser(ctx, userID)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) ensureEmailAvailable(ctx context.Context, email string, exceptID uint64) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.ID != exceptID {
		return apierrors.NewValidationError("email", "has already been taken")
	}
	return nil
}

// checkPassword enforces the length bounds. The upper bound is in bytes since
// bcrypt rejects longer input.
func checkPassword(verr *apierrors.ValidationError, password string) {
	switch {
	case len(password) < constants.MinPasswordLength:
		verr.Add("password", fmt.Sprintf("must be at least %d characters", constants.MinPasswordLength))
	case len(password) > constants.MaxPasswordBytes:
		verr.Add("password", fmt.Sprintf("may not be greater than %d bytes", constants.MaxPasswordBytes))
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apierrors.NewValidationError("password", fmt.Sprintf("may not be greater than %d bytes", constants.MaxPasswordBytes))
		}
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
