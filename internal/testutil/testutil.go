// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-management-api/internal/database"
	"github.com/yukikurage/todo-management-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database that is closed when
// the test ends.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCategory inserts a category.
func CreateCategory(t testing.TB, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreateTodo inserts a todo owned by userID. Zero status and priority use the defaults.
func CreateTodo(t testing.TB, db *gorm.DB, userID uint64, title string, opts ...func(*models.Todo)) *models.Todo {
	t.Helper()
	todo := &models.Todo{
		Title:    title,
		Status:   models.TodoStatusPending,
		Priority: models.TodoPriorityMedium,
		UserID:   userID,
	}
	for _, opt := range opts {
		opt(todo)
	}
	require.NoError(t, db.Omit("Categories").Create(todo).Error)
	return todo
}

// Tag attaches categories to a todo through the join table.
func Tag(t testing.TB, db *gorm.DB, todoID uint64, categoryIDs ...uint64) {
	t.Helper()
	for _, categoryID := range categoryIDs {
		require.NoError(t, db.Create(&models.TodoCategory{TodoID: todoID, CategoryID: categoryID}).Error)
	}
}
