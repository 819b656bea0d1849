package services

import (
	"context"
	"fmt"

	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
	"github.com/yukikurage/todo-management-api/internal/repository"
)

// CategorySelection is the requested category set of a todo.
//
// On create, Present=false attaches nothing. On update, Present=false leaves
// the associations untouched, while Present=true with no IDs clears them.
type CategorySelection struct {
	Present bool
	IDs     []uint64
}

// KeepCategories leaves associations unchanged on update.
func KeepCategories() CategorySelection {
	return CategorySelection{}
}

// SetCategories replaces associations with exactly ids. An empty list clears them.
func SetCategories(ids ...uint64) CategorySelection {
	return CategorySelection{Present: true, IDs: ids}
}

// verifyCategories checks that every selected category exists. It must run
// before any write of the enclosing operation.
func verifyCategories(ctx context.Context, repo repository.TodoRepository, ids []uint64) error {
	ids = uniqueUint64(ids)
	if len(ids) == 0 {
		return nil
	}
	count, err := repo.CountCategoriesByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify categories: %w", err)
	}
	if int(count) != len(ids) {
		return ErrInvalidCategory
	}
	return nil
}

// syncCategories reconciles the todo's associations with sel.
func syncCategories(ctx context.Context, repo repository.TodoRepository, todoID uint64, sel CategorySelection) error {
	if !sel.Present {
		return nil
	}
	if err := repo.ReplaceCategories(ctx, todoID, uniqueUint64(sel.IDs)); err != nil {
		return fmt.Errorf("failed to sync categories: %w", err)
	}
	return nil
}

// ErrInvalidCategory is returned when a selection references a missing category.
var ErrInvalidCategory = apierrors.NewValidationError("category_ids", "contains a category that does not exist")

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
