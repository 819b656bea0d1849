package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-management-api/internal/dto"
	"github.com/yukikurage/todo-management-api/internal/response"
	"github.com/yukikurage/todo-management-api/internal/services"
	"github.com/yukikurage/todo-management-api/internal/utils"
)

// CategoryHandler serves the shared category resource.
type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories returns every category ordered by name
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Categories retrieved successfully", dto.ToCategoryDTOs(categories))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "Category not found")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Category retrieved successfully", dto.ToCategoryDTO(*category))
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), services.CreateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, "Category created successfully", dto.ToCategoryDTO(*category))
}

// UpdateCategory renames or recolours a category. A null color removes it.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "Category not found")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), categoryID, services.UpdateCategoryInput{
		Name:       req.Name,
		Color:      req.Color.Ptr(),
		ClearColor: req.Color.Set && !req.Color.Valid,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Category updated successfully", dto.ToCategoryDTO(*category))
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "Category not found")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}

// ListCategoryTodos returns the current user's todos tagged with the category.
func (h *CategoryHandler) ListCategoryTodos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "Category not found")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	todos, total, err := h.categoryService.ListCategoryTodos(c.Request.Context(), userID, categoryID, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Paginated(c, "Category todos retrieved successfully", dto.ToTodoDTOs(todos), total, params)
}
