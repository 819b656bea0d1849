package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-management-api/internal/response"
	"github.com/yukikurage/todo-management-api/internal/services"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) TodoStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.TodoStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Todo statistics retrieved successfully", stats)
}

func (h *StatsHandler) PriorityStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.PriorityStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "Priority statistics retrieved successfully", stats)
}
