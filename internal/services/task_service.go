package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskForbidden          = errors.New("not allowed to access this task")
	ErrInvalidInput           = errors.New("invalid input")
	ErrTitleRequired          = fmt.Errorf("%w: title is required", ErrInvalidInput)
	ErrTitleTooLong           = fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, constants.MaxTitleLength)
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAIRequestFailed        = errors.New("AI request failed")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
	ErrAITooManyTasks         = fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
)

// TaskService handles task business logic. Every operation is scoped to the
// calling user.
type TaskService struct {
	taskRepo  repository.TaskRepository
	aiService *AIService
	now       func() time.Time
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(taskRepo repository.TaskRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		aiService: aiService,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID   string
	Done     *bool
	Priority *models.Priority
	Search   string
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID     string
	Title       string
	Description *string
	Priority    models.Priority
	DueDate     *string
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	DueDate     *string
	Done        *bool
}

// TaskSummary holds task counts for one user.
type TaskSummary struct {
	Total      int                     `json:"total"`
	Done       int                     `json:"done"`
	Pending    int                     `json:"pending"`
	ByPriority map[models.Priority]int `json:"by_priority"`
}

// ListTasks returns the user's tasks matching every filter that is set, in
// creation order.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{
		OwnerID:  input.UserID,
		Done:     input.Done,
		Priority: input.Priority,
		Search:   input.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task owned by userID
func (s *TaskService) GetTask(userID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := ensureOwner(task, userID); err != nil {
		return nil, err
	}

	return task, nil
}

// CreateTask creates a new task owned by input.OwnerID
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	task := &models.Task{
		ID:          models.NewID(),
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		OwnerID:     input.OwnerID,
		CreatedAt:   s.now(),
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies the fields present in input
func (s *TaskService) UpdateTask(userID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
	}

	task, err := s.taskRepo.Modify(taskID, func(task *models.Task) error {
		if err := ensureOwner(task, userID); err != nil {
			return err
		}

		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Description != nil {
			description := *input.Description
			task.Description = &description
		}
		if input.Priority != nil {
			task.Priority = *input.Priority
		}
		if input.DueDate != nil {
			dueDate := *input.DueDate
			task.DueDate = &dueDate
		}
		if input.Done != nil {
			task.Done = *input.Done
		}
		now := s.now()
		task.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return nil, s.translate(err, "failed to update task")
	}

	return task, nil
}

// DeleteTask deletes a task owned by userID
func (s *TaskService) DeleteTask(userID, taskID string) error {
	err := s.taskRepo.DeleteIf(taskID, func(task *models.Task) error {
		return ensureOwner(task, userID)
	})
	if err != nil {
		return s.translate(err, "failed to delete task")
	}

	return nil
}

// ToggleTask flips the done flag of a task owned by userID
func (s *TaskService) ToggleTask(userID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.Modify(taskID, func(task *models.Task) error {
		if err := ensureOwner(task, userID); err != nil {
			return err
		}

		task.Done = !task.Done
		now := s.now()
		task.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return nil, s.translate(err, "failed to toggle task")
	}

	return task, nil
}

// Summary counts the user's tasks by completion and priority
func (s *TaskService) Summary(userID string) (*TaskSummary, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{OwnerID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	summary := &TaskSummary{
		Total:      len(tasks),
		ByPriority: make(map[models.Priority]int, len(models.Priorities)),
	}
	for _, p := range models.Priorities {
		summary.ByPriority[p] = 0
	}
	for _, task := range tasks {
		if task.Done {
			summary.Done++
		}
		summary.ByPriority[task.Priority]++
	}
	summary.Pending = summary.Total - summary.Done

	return summary, nil
}

// GenerateTasks uses AI to suggest tasks from text. Suggestions are not stored.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIRequestFailed, err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, ErrAITooManyTasks
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if validateTitle(aiTask.Title) != nil {
			continue
		}

		if _, err := models.ParsePriority(aiTask.Priority); err != nil {
			aiTask.Priority = string(models.PriorityMedium)
		}
		if aiTask.DueDate != nil && strings.TrimSpace(*aiTask.DueDate) == "" {
			aiTask.DueDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// translate maps repository errors to service errors. Sentinels returned
// from inside Modify or DeleteIf pass through unchanged.
func (s *TaskService) translate(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrTaskNotFound
	case errors.Is(err, ErrTaskForbidden):
		return ErrTaskForbidden
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

func ensureOwner(task *models.Task, userID string) error {
	if task.OwnerID != userID {
		return ErrTaskForbidden
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
