package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Priority    models.Priority `json:"priority"`
	DueDate     *string         `json:"due_date"`
	Done        bool            `json:"done"`
	OwnerID     string          `json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// TaskListResponse represents a filtered list of tasks
type TaskListResponse struct {
	Total int       `json:"total"`
	Tasks []TaskDTO `json:"tasks"`
}

// TaskDeletedResponse confirms a deletion
type TaskDeletedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// TaskSummaryDTO represents per-user task counts
type TaskSummaryDTO struct {
	Total      int                     `json:"total"`
	Done       int                     `json:"done"`
	Pending    int                     `json:"pending"`
	ByPriority map[models.Priority]int `json:"by_priority"`
}

// GeneratedTaskDTO is an AI task suggestion. Suggestions are not stored.
type GeneratedTaskDTO struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Priority    models.Priority `json:"priority"`
	DueDate     *string         `json:"due_date"`
}

// GeneratedTasksResponse wraps AI task suggestions
type GeneratedTasksResponse struct {
	Tasks []GeneratedTaskDTO `json:"tasks"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Done:        task.Done,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Total: len(items),
		Tasks: items,
	}
}

// ToTaskSummaryDTO converts a service summary to its response shape
func ToTaskSummaryDTO(summary services.TaskSummary) TaskSummaryDTO {
	return TaskSummaryDTO{
		Total:      summary.Total,
		Done:       summary.Done,
		Pending:    summary.Pending,
		ByPriority: summary.ByPriority,
	}
}

// ToGeneratedTasksResponse converts AI suggestions to their response shape
func ToGeneratedTasksResponse(tasks []services.GeneratedTask) GeneratedTasksResponse {
	items := make([]GeneratedTaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = GeneratedTaskDTO{
			Title:       task.Title,
			Description: task.Description,
			Priority:    models.Priority(task.Priority),
			DueDate:     task.DueDate,
		}
	}
	return GeneratedTasksResponse{Tasks: items}
}
