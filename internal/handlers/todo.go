package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-management-api/internal/dto"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
	"github.com/yukikurage/todo-management-api/internal/models"
	"github.com/yukikurage/todo-management-api/internal/response"
	"github.com/yukikurage/todo-management-api/internal/services"
	"github.com/yukikurage/todo-management-api/internal/utils"
)

const suggestTimeout = 60 * time.Second

type TodoHandler struct {
	todoService *services.TodoService
	now         func() time.Time
}

func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		now:         time.Now,
	}
}

// ListTodos returns the current user's todos.
// Query: status, priority, category_id, q, sort, order, page, limit.
func (h *TodoHandler) ListTodos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTodosInput{
		UserID:   userID,
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Query:    c.Query("q"),
		Sort:     c.Query("sort"),
		Order:    c.Query("order"),
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if raw := c.Query("category_id"); raw != "" {
		if categoryID, err := strconv.ParseUint(raw, 10, 64); err == nil {
			input.CategoryID = &categoryID
		}
	}

	todos, total, err := h.todoService.ListTodos(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Paginated(c, "Todos retrieved successfully", dto.ToTodoDTOs(todos), total, params)
}

// SearchTodos matches q against title and description.
func (h *TodoHandler) SearchTodos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	todos, total, err := h.todoService.SearchTodos(c.Request.Context(), services.SearchTodosInput{
		UserID:   userID,
		Query:    c.Query("q"),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Paginated(c, "Search results retrieved successfully", dto.ToTodoDTOs(todos), total, params)
}

func (h *TodoHandler) GetTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	todoID, ok := pathID(c, "Todo not found")
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodo(c.Request.Context(), userID, todoID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Todo retrieved successfully", dto.ToTodoDTO(*todo))
}

func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.CreateTodoInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TodoStatus(req.Status),
		Priority:    models.TodoPriority(req.Priority),
		Categories:  services.KeepCategories(),
	}
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		dueDate, err := dto.ParseDueDate(*req.DueDate, h.now())
		if err != nil {
			apierrors.ValidationFailed(c, []apierrors.FieldError{{Field: "due_date", Message: err.Error()}})
			return
		}
		input.DueDate = &dueDate
	}
	if req.CategoryIDs != nil {
		input.Categories = services.SetCategories(*req.CategoryIDs...)
	}

	todo, err := h.todoService.CreateTodo(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, "Todo created successfully", dto.ToTodoDTO(*todo))
}

// UpdateTodo applies a partial update. A field that is absent is left alone,
// an explicit null clears description, due_date and category_ids.
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	todoID, ok := pathID(c, "Todo not found")
	if !ok {
		return
	}

	var req dto.UpdateTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateTodoInput{
		Title:            req.Title,
		Description:      req.Description.Ptr(),
		ClearDescription: req.Description.Set && !req.Description.Valid,
		Categories:       services.KeepCategories(),
	}
	if req.Status != nil {
		status := models.TodoStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := models.TodoPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.DueDate.Set {
		if !req.DueDate.Valid || strings.TrimSpace(req.DueDate.Value) == "" {
			input.ClearDueDate = true
		} else {
			dueDate, err := dto.ParseDueDate(req.DueDate.Value, h.now())
			if err != nil {
				apierrors.ValidationFailed(c, []apierrors.FieldError{{Field: "due_date", Message: err.Error()}})
				return
			}
			input.DueDate = &dueDate
		}
	}
	if req.CategoryIDs.Set {
		input.Categories = services.SetCategories(req.CategoryIDs.Value...)
	}

	todo, err := h.todoService.UpdateTodo(c.Request.Context(), userID, todoID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Todo updated successfully", dto.ToTodoDTO(*todo))
}

func (h *TodoHandler) UpdateTodoStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	todoID, ok := pathID(c, "Todo not found")
	if !ok {
		return
	}

	var req dto.UpdateTodoStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	todo, err := h.todoService.UpdateTodoStatus(c.Request.Context(), userID, todoID, models.TodoStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Todo status updated successfully", dto.ToTodoDTO(*todo))
}

func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	todoID, ok := pathID(c, "Todo not found")
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(c.Request.Context(), userID, todoID); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}

// SuggestTodos extracts todo suggestions from free text. Nothing is saved.
func (h *TodoHandler) SuggestTodos(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req dto.SuggestTodosRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), suggestTimeout)
	defer cancel()

	suggestions, err := h.todoService.SuggestTodos(ctx, req.Text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			apierrors.ServiceUnavailable(c, "AI service timed out")
			return
		}
		respondError(c, err)
		return
	}

	response.Success(c, "Todo suggestions generated successfully", suggestions)
}
