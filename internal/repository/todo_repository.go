package repository

import (
	"context"
	"strings"
	"time"

	"github.com/yukikurage/todo-management-api/internal/database"
	"github.com/yukikurage/todo-management-api/internal/models"
	"github.com/yukikurage/todo-management-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSortColumn is used when no sort column is requested.
const DefaultSortColumn = "created_at"

var sortableColumns = map[string]struct{}{
	"title":      {},
	"status":     {},
	"priority":   {},
	"created_at": {},
	"updated_at": {},
	"due_date":   {},
}

// IsSortableColumn reports whether column may be used to order todos.
func IsSortableColumn(column string) bool {
	_, ok := sortableColumns[column]
	return ok
}

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

func (r *GormTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(todo).Error
}

func (r *GormTodoRepository) FindByID(ctx context.Context, userID, id uint64) (*models.Todo, error) {
	var todo models.Todo
	err := r.db.WithContext(ctx).
		Preload("Categories", orderCategories).
		Scopes(database.OwnedBy(userID)).
		First(&todo, id).Error
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// List retrieves todos with filtering, sorting and pagination. All filters are
// combined with AND; the text query is a single parenthesised OR group.
func (r *GormTodoRepository) List(ctx context.Context, filter TodoFilter) ([]models.Todo, int64, error) {
	// Ownership is applied first so it leads the WHERE clause.
	query := database.OwnedBy(filter.UserID)(r.db.WithContext(ctx).Model(&models.Todo{}))

	if filter.Status != nil {
		query = query.Where("todos.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("todos.priority = ?", *filter.Priority)
	}
	if filter.CategoryID != nil {
		categorySubQuery := r.db.Model(&models.TodoCategory{}).
			Select("1").
			Where("todo_category.todo_id = todos.id").
			Where("todo_category.category_id = ?", *filter.CategoryID)
		query = query.Where("EXISTS (?)", categorySubQuery)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		// LOWER folds non-ASCII letters on MySQL and Postgres only. SQLite
		// folds ASCII, so "ÇAY" does not find "çay" there.
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			r.db.Where("LOWER(todos.title) LIKE ? ESCAPE '!'", pattern).
				Or("LOWER(todos.description) LIKE ? ESCAPE '!'", pattern),
		)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	todos := []models.Todo{}
	if total == 0 {
		return todos, 0, nil
	}

	listQuery := applySort(query, filter.SortBy, filter.SortDesc)
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Categories", orderCategories).Find(&todos).Error; err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

func applySort(query *gorm.DB, column string, desc bool) *gorm.DB {
	if !IsSortableColumn(column) {
		column = DefaultSortColumn
		desc = true
	}

	if column == "due_date" {
		// Todos without a due date always sort last.
		query = query.Order("CASE WHEN todos.due_date IS NULL THEN 1 ELSE 0 END")
	}
	return query.
		Order(clause.OrderByColumn{Column: clause.Column{Table: "todos", Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "todos", Name: "id"}, Desc: desc})
}

// escapeLike escapes LIKE wildcards using '!' as the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func orderCategories(db *gorm.DB) *gorm.DB {
	return db.Order("categories.name ASC")
}

func (r *GormTodoRepository) UpdateFields(ctx context.Context, userID, id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Todo{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields).Error
}

func (r *GormTodoRepository) Delete(ctx context.Context, userID, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Todo{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormTodoRepository) ReplaceCategories(ctx context.Context, todoID uint64, categoryIDs []uint64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("todo_id = ?", todoID).Delete(&models.TodoCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}

	rows := make([]models.TodoCategory, len(categoryIDs))
	for i, categoryID := range categoryIDs {
		rows[i] = models.TodoCategory{TodoID: todoID, CategoryID: categoryID}
	}
	return db.Create(&rows).Error
}

func (r *GormTodoRepository) CountCategoriesByIDs(ctx context.Context, categoryIDs []uint64) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id IN ?", categoryIDs).
		Count(&count).Error
	return count, err
}

func (r *GormTodoRepository) CountByStatus(ctx context.Context, userID uint64) (map[models.TodoStatus]int64, error) {
	var rows []struct {
		Status models.TodoStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Todo{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TodoStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *GormTodoRepository) CountByPriority(ctx context.Context, userID uint64) (map[models.TodoPriority]int64, error) {
	var rows []struct {
		Priority models.TodoPriority
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Todo{}).
		Select("priority, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TodoPriority]int64, len(rows))
	for _, row := range rows {
		counts[row.Priority] = row.Count
	}
	return counts, nil
}

func (r *GormTodoRepository) CountOverdue(ctx context.Context, userID uint64, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Todo{}).
		Where("user_id = ?", userID).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Where("status IN ?", []models.TodoStatus{models.TodoStatusPending, models.TodoStatusInProgress}).
		Count(&count).Error
	return count, err
}

func (r *GormTodoRepository) WithTransaction(ctx context.Context, fn func(repo TodoRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormTodoRepository{db: tx})
	})
}
