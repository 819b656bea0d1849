package repository

import (
	"context"
	"time"

	"github.com/yukikurage/todo-management-api/internal/models"
)

// TodoRepository defines the interface for todo data access. Every read and
// write is scoped to the owning user.
type TodoRepository interface {
	// Create inserts a todo. Categories on the model are ignored.
	Create(ctx context.Context, todo *models.Todo) error

	// FindByID finds a live todo owned by userID with its categories loaded.
	FindByID(ctx context.Context, userID, id uint64) (*models.Todo, error)

	// List returns one page of todos matching filter and the total match count.
	List(ctx context.Context, filter TodoFilter) ([]models.Todo, int64, error)

	// UpdateFields writes only the given columns.
	UpdateFields(ctx context.Context, userID, id uint64, fields map[string]any) error

	// Delete soft deletes a todo and reports whether a row was removed.
	Delete(ctx context.Context, userID, id uint64) (bool, error)

	// ReplaceCategories makes categoryIDs the exact association set of the todo.
	ReplaceCategories(ctx context.Context, todoID uint64, categoryIDs []uint64) error

	// CountCategoriesByIDs counts how many of the given category IDs exist.
	CountCategoriesByIDs(ctx context.Context, categoryIDs []uint64) (int64, error)

	CountByStatus(ctx context.Context, userID uint64) (map[models.TodoStatus]int64, error)
	CountByPriority(ctx context.Context, userID uint64) (map[models.TodoPriority]int64, error)

	// CountOverdue counts open todos whose due date is before now.
	CountOverdue(ctx context.Context, userID uint64, now time.Time) (int64, error)

	// WithTransaction runs fn against a repository bound to a single transaction.
	WithTransaction(ctx context.Context, fn func(repo TodoRepository) error) error
}

// TodoFilter holds filtering options for listing todos
type TodoFilter struct {
	UserID     uint64
	Status     *models.TodoStatus
	Priority   *models.TodoPriority
	CategoryID *uint64
	// Query matches title or description, case-insensitively.
	Query    string
	SortBy   string
	SortDesc bool
	Page     int
	PageSize int
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uint64) (*models.Category, error)

	// FindByName finds a category by exact name.
	FindByName(ctx context.Context, name string) (*models.Category, error)

	// List returns every category ordered by name.
	List(ctx context.Context) ([]models.Category, error)

	UpdateFields(ctx context.Context, id uint64, fields map[string]any) error

	// Delete removes a category and its todo associations.
	Delete(ctx context.Context, id uint64) (bool, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateFields(ctx context.Context, id uint64, fields map[string]any) error
}
