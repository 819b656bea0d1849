package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/todo-management-api/internal/constants"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
	"github.com/yukikurage/todo-management-api/internal/models"
	"github.com/yukikurage/todo-management-api/internal/repository"
	"github.com/yukikurage/todo-management-api/internal/validation"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = fmt.Errorf("category %w", apierrors.ErrNotFound)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	todoRepo     repository.TodoRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, todoRepo repository.TodoRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		todoRepo:     todoRepo,
	}
}

type CreateCategoryInput struct {
	Name  string
	Color *string
}

// UpdateCategoryInput represents a partial update. ClearColor removes the colour.
type UpdateCategoryInput struct {
	Name       *string
	Color      *string
	ClearColor bool
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint64) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	verr := &apierrors.ValidationError{}
	name := validateCategoryName(verr, input.Name)
	validateColor(verr, input.Color)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, name, 0); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name, Color: input.Color}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.NewValidationError("name", "has already been taken")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint64, input UpdateCategoryInput) (*models.Category, error) {
	verr := &apierrors.ValidationError{}
	fields := map[string]any{}

	var name string
	if input.Name != nil {
		name = validateCategoryName(verr, *input.Name)
		fields["name"] = name
	}
	if input.ClearColor {
		fields["color"] = nil
	} else if input.Color != nil {
		validateColor(verr, input.Color)
		fields["color"] = *input.Color
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := s.ensureNameAvailable(ctx, name, id); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.NewValidationError("name", "has already been taken")
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category and detaches it from every todo.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint64) error {
	deleted, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	return nil
}

// ListCategoryTodos returns one page of the user's todos tagged with the category.
func (s *CategoryService) ListCategoryTodos(ctx context.Context, userID, categoryID uint64, page, pageSize int) ([]models.Todo, int64, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, 0, err
	}

	todos, total, err := s.todoRepo.List(ctx, repository.TodoFilter{
		UserID:     userID,
		CategoryID: &categoryID,
		SortBy:     repository.DefaultSortColumn,
		SortDesc:   true,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list category todos: %w", err)
	}
	return todos, total, nil
}

func (s *CategoryService) ensureNameAvailable(ctx context.Context, name string, exceptID uint64) error {
	existing, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if existing.ID != exceptID {
		return apierrors.NewValidationError("name", "has already been taken")
	}
	return nil
}

func validateCategoryName(verr *apierrors.ValidationError, name string) string {
	name = strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		verr.Add("name", "is required")
	case n > constants.MaxCategoryNameSize:
		verr.Add("name", fmt.Sprintf("may not be greater than %d characters", constants.MaxCategoryNameSize))
	}
	return name
}

func validateColor(verr *apierrors.ValidationError, color *string) {
	if color != nil && !validation.IsHexColor(*color) {
		verr.Add("color", "must be a valid hex color code (e.g. #FF5733)")
	}
}
