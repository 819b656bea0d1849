package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/todo-management-api/internal/constants"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
	"github.com/yukikurage/todo-management-api/internal/models"
	"github.com/yukikurage/todo-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound           = fmt.Errorf("todo %w", apierrors.ErrNotFound)
	ErrSearchQueryRequired    = fmt.Errorf("%w: search query q is required", apierrors.ErrBadRequest)
	ErrAIServiceNotConfigured = fmt.Errorf("AI service is not configured: %w", apierrors.ErrServiceUnavailable)
)

// TodoService handles todo business logic
type TodoService struct {
	todoRepo  repository.TodoRepository
	aiService *AIService
	now       func() time.Time
}

// NewTodoService creates a new TodoService. aiService may be nil.
func NewTodoService(todoRepo repository.TodoRepository, aiService *AIService) *TodoService {
	return &TodoService{
		todoRepo:  todoRepo,
		aiService: aiService,
		now:       time.Now,
	}
}

// ListTodosInput represents filters for listing todos. Unknown status and
// priority values are ignored; an unknown sort column or order is rejected.
type ListTodosInput struct {
	UserID     uint64
	Status     string
	Priority   string
	CategoryID *uint64
	Query      string
	Sort       string
	Order      string
	Page       int
	PageSize   int
}

// CreateTodoInput represents input for creating a todo
type CreateTodoInput struct {
	UserID      uint64
	Title       string
	Description *string
	Status      models.TodoStatus
	Priority    models.TodoPriority
	DueDate     *time.Time
	Categories  CategorySelection
}

// UpdateTodoInput represents a partial update. Nil fields are left unchanged.
type UpdateTodoInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *models.TodoStatus
	Priority         *models.TodoPriority
	DueDate          *time.Time
	ClearDueDate     bool
	Categories       CategorySelection
}

// SearchTodosInput represents a free-text search
type SearchTodosInput struct {
	UserID   uint64
	Query    string
	Page     int
	PageSize int
}

// ListTodos returns one page of the user's todos.
func (s *TodoService) ListTodos(ctx context.Context, input ListTodosInput) ([]models.Todo, int64, error) {
	filter := repository.TodoFilter{
		UserID:     input.UserID,
		CategoryID: input.CategoryID,
		Query:      input.Query,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	if status := models.TodoStatus(input.Status); status.IsValid() {
		filter.Status = &status
	}
	if priority := models.TodoPriority(input.Priority); priority.IsValid() {
		filter.Priority = &priority
	}

	sortBy, desc, err := parseSort(input.Sort, input.Order)
	if err != nil {
		return nil, 0, err
	}
	filter.SortBy = sortBy
	filter.SortDesc = desc

	todos, total, err := s.todoRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, total, nil
}

// SearchTodos matches q against title and description, ignoring every other filter.
func (s *TodoService) SearchTodos(ctx context.Context, input SearchTodosInput) ([]models.Todo, int64, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, 0, ErrSearchQueryRequired
	}

	todos, total, err := s.todoRepo.List(ctx, repository.TodoFilter{
		UserID:   input.UserID,
		Query:    query,
		SortBy:   repository.DefaultSortColumn,
		SortDesc: true,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search todos: %w", err)
	}
	return todos, total, nil
}

// GetTodo returns a todo with its categories
func (s *TodoService) GetTodo(ctx context.Context, userID, todoID uint64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return todo, nil
}

// CreateTodo validates and persists a todo together with its categories.
func (s *TodoService) CreateTodo(ctx context.Context, input CreateTodoInput) (*models.Todo, error) {
	if input.Status == "" {
		input.Status = models.TodoStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.TodoPriorityMedium
	}

	verr := &apierrors.ValidationError{}
	title := s.validateTitle(verr, input.Title)
	s.validateStatus(verr, input.Status)
	s.validatePriority(verr, input.Priority)
	s.validateDueDate(verr, input.DueDate)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	todo := &models.Todo{
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		UserID:      input.UserID,
	}

	err := s.todoRepo.WithTransaction(ctx, func(repo repository.TodoRepository) error {
		if err := verifyCategories(ctx, repo, input.Categories.IDs); err != nil {
			return err
		}
		if err := repo.Create(ctx, todo); err != nil {
			return fmt.Errorf("failed to create todo: %w", err)
		}
		return syncCategories(ctx, repo, todo.ID, input.Categories)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTodo(ctx, input.UserID, todo.ID)
}

// UpdateTodo applies a partial update. Fields and categories are written in
// one transaction.
func (s *TodoService) UpdateTodo(ctx context.Context, userID, todoID uint64, input UpdateTodoInput) (*models.Todo, error) {
	verr := &apierrors.ValidationError{}
	fields := map[string]any{}

	if input.Title != nil {
		fields["title"] = s.validateTitle(verr, *input.Title)
	}
	if input.ClearDescription {
		fields["description"] = nil
	} else if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Status != nil {
		s.validateStatus(verr, *input.Status)
		fields["status"] = *input.Status
	}
	if input.Priority != nil {
		s.validatePriority(verr, *input.Priority)
		fields["priority"] = *input.Priority
	}
	if input.ClearDueDate {
		fields["due_date"] = nil
	} else if input.DueDate != nil {
		s.validateDueDate(verr, input.DueDate)
		fields["due_date"] = *input.DueDate
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.GetTodo(ctx, userID, todoID); err != nil {
		return nil, err
	}

	err := s.todoRepo.WithTransaction(ctx, func(repo repository.TodoRepository) error {
		if input.Categories.Present {
			if err := verifyCategories(ctx, repo, input.Categories.IDs); err != nil {
				return err
			}
		}
		if err := repo.UpdateFields(ctx, userID, todoID, fields); err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}
		return syncCategories(ctx, repo, todoID, input.Categories)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTodo(ctx, userID, todoID)
}

// UpdateTodoStatus writes only the status column. Any status may follow any other.
func (s *TodoService) UpdateTodoStatus(ctx context.Context, userID, todoID uint64, status models.TodoStatus) (*models.Todo, error) {
	verr := &apierrors.ValidationError{}
	s.validateStatus(verr, status)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.GetTodo(ctx, userID, todoID); err != nil {
		return nil, err
	}

	if err := s.todoRepo.UpdateFields(ctx, userID, todoID, map[string]any{"status": status}); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return s.GetTodo(ctx, userID, todoID)
}

// DeleteTodo soft deletes a todo
func (s *TodoService) DeleteTodo(ctx context.Context, userID, todoID uint64) error {
	deleted, err := s.todoRepo.Delete(ctx, userID, todoID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}

func (s *TodoService) validateTitle(verr *apierrors.ValidationError, title string) string {
	title = strings.TrimSpace(title)
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		verr.Add("title", "is required")
	case n < constants.MinTodoTitleLength:
		verr.Add("title", fmt.Sprintf("must be at least %d characters", constants.MinTodoTitleLength))
	case n > constants.MaxTodoTitleLength:
		verr.Add("title", fmt.Sprintf("may not be greater than %d characters", constants.MaxTodoTitleLength))
	}
	return title
}

func (s *TodoService) validateStatus(verr *apierrors.ValidationError, status models.TodoStatus) {
	if !status.IsValid() {
		verr.Add("status", "must be one of: pending, in_progress, completed, cancelled")
	}
}

func (s *TodoService) validatePriority(verr *apierrors.ValidationError, priority models.TodoPriority) {
	if !priority.IsValid() {
		verr.Add("priority", "must be one of: low, medium, high")
	}
}

func (s *TodoService) validateDueDate(verr *apierrors.ValidationError, dueDate *time.Time) {
	if dueDate != nil && !dueDate.After(s.now()) {
		verr.Add("due_date", "must be a date after now")
	}
}

// parseSort validates the requested sort column and direction. Empty values
// select newest first.
func parseSort(sort, order string) (string, bool, error) {
	verr := &apierrors.ValidationError{}

	sort = strings.ToLower(strings.TrimSpace(sort))
	if sort == "" {
		sort = repository.DefaultSortColumn
	} else if !repository.IsSortableColumn(sort) {
		verr.Add("sort", "must be one of: title, status, priority, created_at, updated_at, due_date")
	}

	desc := true
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		verr.Add("order", "must be one of: asc, desc")
	}

	if err := verr.OrNil(); err != nil {
		return "", false, err
	}
	return sort, desc, nil
}
