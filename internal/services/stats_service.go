package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/todo-management-api/internal/models"
	"github.com/yukikurage/todo-management-api/internal/repository"
)

// TodoStats counts a user's todos per status.
type TodoStats struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Total      int64 `json:"total"`
	Overdue    int64 `json:"overdue"`
}

// PriorityStats counts a user's todos per priority.
type PriorityStats struct {
	Low    int64 `json:"low"`
	Medium int64 `json:"medium"`
	High   int64 `json:"high"`
}

type StatsService struct {
	todoRepo repository.TodoRepository
	now      func() time.Time
}

func NewStatsService(todoRepo repository.TodoRepository) *StatsService {
	return &StatsService{todoRepo: todoRepo, now: time.Now}
}

func (s *StatsService) TodoStats(ctx context.Context, userID uint64) (*TodoStats, error) {
	byStatus, err := s.todoRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count todos by status: %w", err)
	}
	overdue, err := s.todoRepo.CountOverdue(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue todos: %w", err)
	}

	stats := &TodoStats{
		Pending:    byStatus[models.TodoStatusPending],
		InProgress: byStatus[models.TodoStatusInProgress],
		Completed:  byStatus[models.TodoStatusCompleted],
		Cancelled:  byStatus[models.TodoStatusCancelled],
		Overdue:    overdue,
	}
	stats.Total = stats.Pending + stats.InProgress + stats.Completed + stats.Cancelled
	return stats, nil
}

func (s *StatsService) PriorityStats(ctx context.Context, userID uint64) (*PriorityStats, error) {
	byPriority, err := s.todoRepo.CountByPriority(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count todos by priority: %w", err)
	}
	return &PriorityStats{
		Low:    byPriority[models.TodoPriorityLow],
		Medium: byPriority[models.TodoPriorityMedium],
		High:   byPriority[models.TodoPriorityHigh],
	}, nil
}
