package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/metrics"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the current user's tasks, optionally filtered by done,
// priority and a search term.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type ListTasksQuery struct {
		Done     *bool  `form:"done"`
		Priority string `form:"priority"`
		Search   string `form:"search"`
	}

	var query ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.BadRequest(c, "done must be true or false")
		return
	}

	input := services.ListTasksInput{
		UserID: userID,
		Done:   query.Done,
		Search: query.Search,
	}
	if query.Priority != "" {
		priority, err := models.ParsePriority(query.Priority)
		if err != nil {
			apierrors.BadRequest(c, "priority must be one of low, medium, high")
			return
		}
		input.Priority = &priority
	}

	tasks, err := h.taskService.ListTasks(input)
	metrics.TaskOperationsTotal.WithLabelValues("list", metrics.Outcome(err)).Inc()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.GetTask(userID, c.Param("id"))
	metrics.TaskOperationsTotal.WithLabelValues("get", metrics.Outcome(err)).Inc()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string  `json:"title" binding:"required,max=200"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		DueDate     *string `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Title is required and must be at most 200 characters", apierrors.ValidationDetails(err))
		return
	}

	input := services.CreateTaskInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		priority, err := models.ParsePriority(*req.Priority)
		if err != nil {
			apierrors.BadRequest(c, "priority must be one of low, medium, high")
			return
		}
		input.Priority = priority
	}

	task, err := h.taskService.CreateTask(input)
	metrics.TaskOperationsTotal.WithLabelValues("create", metrics.Outcome(err)).Inc()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Absent and null fields are left
// unchanged.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateTaskRequest struct {
		Title       *string `json:"title" binding:"omitempty,max=200"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		DueDate     *string `json:"due_date"`
		Done        *bool   `json:"done"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", apierrors.ValidationDetails(err))
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Done:        req.Done,
	}
	if req.Priority != nil {
		priority, err := models.ParsePriority(*req.Priority)
		if err != nil {
			apierrors.BadRequest(c, "priority must be one of low, medium, high")
			return
		}
		input.Priority = &priority
	}

	task, err := h.taskService.UpdateTask(userID, c.Param("id"), input)
	metrics.TaskOperationsTotal.WithLabelValues("update", metrics.Outcome(err)).Inc()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID := c.Param("id")
	err := h.taskService.DeleteTask(userID, taskID)
	metrics.TaskOperationsTotal.WithLabelValues("delete", metrics.Outcome(err)).Inc()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskDeletedResponse{
		Message: "Task deleted",
		ID:      taskID,
	})
}

// ToggleTask flips a task between done and pending
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.ToggleTask(userID, c.Param("id"))
	metrics.TaskOperationsTotal.WithLabelValues("toggle", metrics.Outcome(err)).Inc()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Summary returns task counts for the current user
func (h *TaskHandler) Summary(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	summary, err := h.taskService.Summary(userID)
	metrics.TaskOperationsTotal.WithLabelValues("summary", metrics.Outcome(err)).Inc()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskSummaryDTO(*summary))
}

// GenerateTasks suggests tasks extracted from free text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	metrics.TaskOperationsTotal.WithLabelValues("generate", metrics.Outcome(err)).Inc()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGeneratedTasksResponse(tasks))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskForbidden):
		apierrors.Forbidden(c, "Access denied")
	case errors.Is(err, services.ErrInvalidInput):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks),
		errors.Is(err, services.ErrAITooManyTasks):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIRequestFailed):
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("AI request failed")
		apierrors.BadGateway(c, "Failed to generate tasks")
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Task request failed")
		apierrors.InternalError(c, "")
	}
}
