package dto

import (
	"time"

	"github.com/yukikurage/todo-management-api/internal/models"
)

// CreateCategoryRequest is the body of POST /api/categories.
type CreateCategoryRequest struct {
	Name  string  `json:"name" binding:"required,notblank,max=100"`
	Color *string `json:"color" binding:"omitnil,hexrgb"`
}

// UpdateCategoryRequest is the body of PUT /api/categories/:id. A null color clears it.
type UpdateCategoryRequest struct {
	Name  *string          `json:"name" binding:"omitnil,notblank,max=100"`
	Color Nullable[string] `json:"color" binding:"omitempty,hexrgb"`
}

type CategoryDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

func ToCategoryDTOs(categories []models.Category) []CategoryDTO {
	items := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		items[i] = ToCategoryDTO(category)
	}
	return items
}
