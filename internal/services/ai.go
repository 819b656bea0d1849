package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/todo-management-api/internal/constants"
	"github.com/yukikurage/todo-management-api/internal/models"
)

type AIService struct {
	client *openai.Client
	model  string
}

// GeneratedTodo is a todo suggested by the model. Nothing is persisted.
type GeneratedTodo struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TodoPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
}

func NewAIService(apiKey string) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey))
}

// NewAIServiceWithConfig allows pointing the client at another base URL.
func NewAIServiceWithConfig(cfg openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
	}
}

// GenerateTodosFromText asks the model to extract todos from free text.
func (s *AIService) GenerateTodosFromText(ctx context.Context, text string, now time.Time) ([]GeneratedTodo, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You extract actionable todos from text.

Current time: %s

Text:
%s

Return a JSON array of todos in this shape:
[
  {
    "title": "short title",
    "description": "details",
    "priority": "low | medium | high",
    "due_date": "RFC3339 timestamp such as 2025-10-28T23:59:59Z, or null when no deadline is stated"
  }
]

Rules:
- Return [] when the text contains no todos
- Convert relative deadlines ("tomorrow", "next week") to absolute timestamps
- Return JSON only, without any explanation`, now.Format(time.RFC3339), text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var todos []GeneratedTodo
	if err := json.Unmarshal([]byte(content), &todos); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return todos, nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// SuggestTodos extracts todo suggestions from text. Blank titles are dropped,
// unknown priorities become medium and past due dates are cleared.
func (s *TodoService) SuggestTodos(ctx context.Context, text string) ([]GeneratedTodo, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	now := s.now()
	generated, err := s.aiService.GenerateTodosFromText(ctx, text, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate todos: %w", err)
	}

	suggestions := make([]GeneratedTodo, 0, len(generated))
	for _, todo := range generated {
		todo.Title = strings.TrimSpace(todo.Title)
		if todo.Title == "" {
			continue
		}
		if !todo.Priority.IsValid() {
			todo.Priority = models.TodoPriorityMedium
		}
		if todo.DueDate != nil && !todo.DueDate.After(now) {
			todo.DueDate = nil
		}

		suggestions = append(suggestions, todo)
		if len(suggestions) == constants.MaxAISuggestions {
			break
		}
	}

	return suggestions, nil
}
