package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-management-api/internal/response"
)

// Health reports that the process is serving requests.
func Health(c *gin.Context) {
	response.Success(c, "Todo API is running", nil)
}
