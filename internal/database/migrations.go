package database

import (
	"fmt"

	"github.com/yukikurage/todo-management-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema and the composite indexes used by
// the todo query engine.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Todo{}, "Categories", &models.TodoCategory{}); err != nil {
		return fmt.Errorf("failed to set up todo_category join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Category{}, "Todos", &models.TodoCategory{}); err != nil {
		return fmt.Errorf("failed to set up todo_category join table: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Todo{},
		&models.TodoCategory{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}

// AddIndexes adds the composite indexes that AutoMigrate cannot express
// through single-column tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"todos", "idx_todos_user_status", "user_id, status"},
		{"todos", "idx_todos_user_priority", "user_id, priority"},
		{"todos", "idx_todos_user_created_at", "user_id, created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
