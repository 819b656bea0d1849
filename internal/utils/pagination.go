package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-management-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// GetPaginationParams extracts pagination parameters from the request.
// Missing, non-numeric or non-positive values fall back to the defaults and
// limit is clamped to constants.MaxPageSize.
func GetPaginationParams(c *gin.Context) PaginationParams {
	return NewPaginationParams(c.Query("page"), c.Query("limit"))
}

func NewPaginationParams(rawPage, rawLimit string) PaginationParams {
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < constants.MinPageSize {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	// Offset must stay representable.
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// LastPage returns the number of pages needed for total rows, never less than 1.
func LastPage(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
