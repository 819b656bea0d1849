// Package response writes the success envelope shared by every endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-management-api/internal/utils"
)

const statusSuccess = "success"

// Envelope is the success body. data is always present, null when there is nothing to return.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type Meta struct {
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

// NewPagination builds page metadata. From and To are nil when the page is empty.
func NewPagination(total int64, params utils.PaginationParams, count int) Pagination {
	p := Pagination{
		Total:       total,
		PerPage:     params.Limit,
		CurrentPage: params.Page,
		LastPage:    utils.LastPage(total, params.Limit),
	}
	if count > 0 {
		from := params.Offset + 1
		to := params.Offset + count
		p.From = &from
		p.To = &to
	}
	return p
}

func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Status: statusSuccess, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Status: statusSuccess, Message: message, Data: data})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a list response. items is always encoded as an array.
func Paginated[T any](c *gin.Context, message string, items []T, total int64, params utils.PaginationParams) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, Envelope{
		Status:  statusSuccess,
		Message: message,
		Data:    items,
		Meta:    &Meta{Pagination: NewPagination(total, params, len(items))},
	})
}
