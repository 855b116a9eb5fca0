package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// AIConfig holds the OpenAI client settings.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type AIService struct {
	client *openai.Client
	model  string
}

type GeneratedTask struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
}

func NewAIService(cfg AIConfig) *AIService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	return &AIService{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

// GenerateTasksFromText analyzes text and extracts tasks using OpenAI GPT
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	today := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You extract actionable tasks from free text.

Today: %s

Text:
%s

Reply with a JSON array of tasks in this shape:
[
  {
    "title": "short task title",
    "description": "details, or null",
    "priority": "low | medium | high",
    "due_date": "YYYY-MM-DD, or null when the text gives no deadline"
  }
]

Rules:
- Return [] when the text contains no tasks
- Resolve relative dates such as "tomorrow" or "next week" against today
- Return only JSON, no commentary`, today, text)

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

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}

// stripCodeFence removes a surrounding ```json fence if the model added one.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
