package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/yukikurage/todo-management-api/internal/models"
)

// CreateTodoRequest is the body of POST /api/todos.
type CreateTodoRequest struct {
	Title       string    `json:"title" binding:"required,notblank,min=3,max=255"`
	Description *string   `json:"description"`
	Status      string    `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *string   `json:"due_date"`
	CategoryIDs *[]uint64 `json:"category_ids" binding:"omitnil,dive,gt=0"`
}

// UpdateTodoRequest is the body of PUT /api/todos/:id. Every field is optional.
type UpdateTodoRequest struct {
	Title       *string            `json:"title" binding:"omitnil,notblank,min=3,max=255"`
	Description Nullable[string]   `json:"description"`
	Status      *string            `json:"status" binding:"omitnil,oneof=pending in_progress completed cancelled"`
	Priority    *string            `json:"priority" binding:"omitnil,oneof=low medium high"`
	DueDate     Nullable[string]   `json:"due_date"`
	CategoryIDs Nullable[[]uint64] `json:"category_ids" binding:"omitempty,dive,gt=0"`
}

// UpdateTodoStatusRequest is the body of PATCH /api/todos/:id/status.
type UpdateTodoStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress completed cancelled"`
}

// SuggestTodosRequest is the body of POST /api/todos/suggest.
type SuggestTodosRequest struct {
	Text string `json:"text" binding:"required,notblank,max=5000"`
}

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var (
	ErrInvalidDueDate = errors.New("must be a valid date")
	ErrPastDueDate    = errors.New("must be a date after now")
)

// ParseDueDate parses a client supplied due date and requires it to be after now.
// Values without a zone are read in UTC.
func ParseDueDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if !t.After(now) {
			return time.Time{}, ErrPastDueDate
		}
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDueDate
}

type TodoDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Status      models.TodoStatus   `json:"status"`
	Priority    models.TodoPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	IsOverdue   bool                `json:"is_overdue"`
	UserID      uint64              `json:"user_id"`
	Categories  []CategoryDTO       `json:"categories"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToTodoDTO converts a Todo model to TodoDTO. Categories is never null.
func ToTodoDTO(todo models.Todo) TodoDTO {
	dto := TodoDTO{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status,
		Priority:    todo.Priority,
		DueDate:     todo.DueDate,
		IsOverdue:   IsOverdue(todo, time.Now()),
		UserID:      todo.UserID,
		Categories:  make([]CategoryDTO, len(todo.Categories)),
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
	for i, category := range todo.Categories {
		dto.Categories[i] = ToCategoryDTO(category)
	}
	return dto
}

func ToTodoDTOs(todos []models.Todo) []TodoDTO {
	items := make([]TodoDTO, len(todos))
	for i, todo := range todos {
		items[i] = ToTodoDTO(todo)
	}
	return items
}

// IsOverdue reports whether an open todo is past its due date.
func IsOverdue(todo models.Todo, now time.Time) bool {
	if todo.DueDate == nil {
		return false
	}
	if todo.Status != models.TodoStatusPending && todo.Status != models.TodoStatusInProgress {
		return false
	}
	return todo.DueDate.Before(now)
}
