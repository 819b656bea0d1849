package utils

import (
	"math"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantOff   int
	}{
		{"defaults", "", 1, 10, 0},
		{"explicit", "page=3&limit=20", 3, 20, 40},
		{"limit clamped", "limit=1000", 1, 50, 0},
		{"limit zero", "limit=0", 1, 10, 0},
		{"limit negative", "limit=-5", 1, 10, 0},
		{"non numeric", "page=abc&limit=xyz", 1, 10, 0},
		{"page zero", "page=0&limit=5", 1, 5, 0},
		{"page max int", "page=" + strconv.Itoa(math.MaxInt) + "&limit=50", math.MaxInt / 50, 50, (math.MaxInt/50 - 1) * 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/api/todos?"+tt.query, nil)

			params := GetPaginationParams(c)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOff, params.Offset)
		})
	}
}

func TestLastPage(t *testing.T) {
	assert.Equal(t, 1, LastPage(0, 10))
	assert.Equal(t, 1, LastPage(10, 10))
	assert.Equal(t, 2, LastPage(11, 10))
	assert.Equal(t, 5, LastPage(5, 1))
}

func TestNewPaginationParams_HugePageKeepsOffsetPositive(t *testing.T) {
	for _, limit := range []string{"", "1", "7", "50"} {
		params := NewPaginationParams(strconv.Itoa(math.MaxInt), limit)

		assert.GreaterOrEqual(t, params.Offset, 0, "limit=%q", limit)
		assert.LessOrEqual(t, params.Offset, math.MaxInt-params.Limit, "limit=%q", limit)
	}
}
