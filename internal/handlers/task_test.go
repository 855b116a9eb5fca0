package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

type TaskHandlerTestSuite struct {
	suite.Suite
	env   testEnv
	alice dto.LoginResponse
	bob   dto.LoginResponse
}

func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupTestEnv(suite.T(), nil)
	suite.alice = suite.env.registerAndLogin(suite.T(), "alice", "pw123456")
	suite.bob = suite.env.registerAndLogin(suite.T(), "bob", "pw654321")
}

func (suite *TaskHandlerTestSuite) createTask(token string, body any) dto.TaskDTO {
	w := suite.env.do(suite.T(), http.MethodPost, "/tasks", body, token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TaskDTO](suite.T(), w)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	task := suite.createTask(suite.alice.AccessToken, map[string]any{
		"title":       "Buy milk",
		"description": "semi-skimmed",
		"priority":    "high",
		"due_date":    "2030-01-01",
	})

	suite.NotEmpty(task.ID)
	suite.Equal("Buy milk", task.Title)
	suite.Require().NotNil(task.Description)
	suite.Equal("semi-skimmed", *task.Description)
	suite.Equal(models.PriorityHigh, task.Priority)
	suite.Require().NotNil(task.DueDate)
	suite.Equal("2030-01-01", *task.DueDate)
	suite.False(task.Done)
	suite.Equal(suite.alice.UserID, task.OwnerID)
	suite.Nil(task.UpdatedAt)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_OmitsUpdatedAtUntilMutated() {
	w := suite.env.do(suite.T(), http.MethodPost, "/tasks", map[string]string{"title": "Fresh"}, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.NotContains(w.Body.String(), "updated_at")

	task := decode[dto.TaskDTO](suite.T(), w)
	w = suite.env.do(suite.T(), http.MethodPost, "/tasks/"+task.ID+"/toggle", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "updated_at")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidRequest() {
	tests := []struct {
		name string
		body any
	}{
		{"missing title", map[string]string{"description": "no title"}},
		{"empty title", map[string]string{"title": ""}},
		{"long title", map[string]string{"title": strings.Repeat("x", 201)}},
		{"unknown priority", map[string]string{"title": "ok", "priority": "urgent"}},
		{"malformed json", `{"title":`},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.env.do(suite.T(), http.MethodPost, "/tasks", tt.body, suite.alice.AccessToken)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Equal(apierrors.ErrCodeInvalidInput, decode[apierrors.APIError](suite.T(), w).Code)
		})
	}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_ValidationDetails() {
	w := suite.env.do(suite.T(), http.MethodPost, "/tasks", map[string]string{"description": "no title"}, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal(map[string]any{"title": "required"}, decode[apierrors.APIError](suite.T(), w).Details)

	w = suite.env.do(suite.T(), http.MethodPost, "/tasks", map[string]string{"title": strings.Repeat("x", 201)}, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal(map[string]any{"title": "max=200"}, decode[apierrors.APIError](suite.T(), w).Details)

	task := suite.createTask(suite.alice.AccessToken, map[string]string{"title": "Original"})
	w = suite.env.do(suite.T(), http.MethodPatch, "/tasks/"+task.ID, map[string]string{"title": strings.Repeat("x", 201)}, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal(map[string]any{"title": "max=200"}, decode[apierrors.APIError](suite.T(), w).Details)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Filters() {
	suite.createTask(suite.alice.AccessToken, map[string]string{"title": "Groceries", "description": "oat milk", "priority": "low"})
	report := suite.createTask(suite.alice.AccessToken, map[string]string{"title": "Write report", "priority": "high"})
	suite.createTask(suite.bob.AccessToken, map[string]string{"title": "Bob's milk"})

	w := suite.env.do(suite.T(), http.MethodPost, "/tasks/"+report.ID+"/toggle", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	all := decode[dto.TaskListResponse](suite.T(), w)
	suite.Equal(2, all.Total)
	suite.Require().Len(all.Tasks, 2)
	suite.Equal("Groceries", all.Tasks[0].Title)
	suite.Equal("Write report", all.Tasks[1].Title)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks?done=true", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	done := decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(done.Tasks, 1)
	suite.Equal(report.ID, done.Tasks[0].ID)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks?priority=low&search=MILK", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	milk := decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(milk.Tasks, 1)
	suite.Equal("Groceries", milk.Tasks[0].Title)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks?priority=urgent", nil, suite.alice.AccessToken)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks?done=maybe", nil, suite.alice.AccessToken)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_EmptyIsArray() {
	w := suite.env.do(suite.T(), http.MethodGet, "/tasks", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"total":0,"tasks":[]}`, w.Body.String())
}

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := suite.env.do(suite.T(), http.MethodGet, "/tasks", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks", nil, "bogus")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_Ownership() {
	task := suite.createTask(suite.alice.AccessToken, map[string]string{"title": "Secret"})

	w := suite.env.do(suite.T(), http.MethodGet, "/tasks/"+task.ID, nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	fetched := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal(task.ID, fetched.ID)
	suite.Equal(models.PriorityMedium, fetched.Priority)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks/"+task.ID, nil, suite.bob.AccessToken)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(apierrors.ErrCodeForbidden, decode[apierrors.APIError](suite.T(), w).Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks/01HZZZZZZZZZZZZZZZZZZZZZZZ", nil, suite.alice.AccessToken)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks/not-an-id", nil, suite.alice.AccessToken)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_Partial() {
	task := suite.createTask(suite.alice.AccessToken, map[string]string{"title": "Original", "description": "keep me"})

	w := suite.env.do(suite.T(), http.MethodPatch, "/tasks/"+task.ID, map[string]any{"done": true, "priority": "high"}, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	updated := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal("Original", updated.Title)
	suite.Require().NotNil(updated.Description)
	suite.Equal("keep me", *updated.Description)
	suite.True(updated.Done)
	suite.Equal(models.PriorityHigh, updated.Priority)
	suite.NotNil(updated.UpdatedAt)

	// null leaves the field unchanged; present zero values are applied.
	w = suite.env.do(suite.T(), http.MethodPatch, "/tasks/"+task.ID, `{"description":null,"done":false,"title":"Renamed"}`, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	updated = decode[dto.TaskDTO](suite.T(), w)
	suite.Equal("Renamed", updated.Title)
	suite.Require().NotNil(updated.Description)
	suite.Equal("keep me", *updated.Description)
	suite.False(updated.Done)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_Errors() {
	task := suite.createTask(suite.alice.AccessToken, map[string]string{"title": "Original"})

	w := suite.env.do(suite.T(), http.MethodPatch, "/tasks/"+task.ID, map[string]string{"title": ""}, suite.alice.AccessToken)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPatch, "/tasks/"+task.ID, map[string]string{"priority": "urgent"}, suite.alice.AccessToken)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPatch, "/tasks/"+task.ID, map[string]string{"title": "Hijacked"}, suite.bob.AccessToken)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks/"+task.ID, nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Original", decode[dto.TaskDTO](suite.T(), w).Title)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := suite.createTask(suite.alice.AccessToken, map[string]string{"title": "Disposable"})

	w := suite.env.do(suite.T(), http.MethodDelete, "/tasks/"+task.ID, nil, suite.bob.AccessToken)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(suite.T(), http.MethodDelete, "/tasks/"+task.ID, nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	deleted := decode[dto.TaskDeletedResponse](suite.T(), w)
	suite.Equal("Task deleted", deleted.Message)
	suite.Equal(task.ID, deleted.ID)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks/"+task.ID, nil, suite.alice.AccessToken)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), http.MethodDelete, "/tasks/"+task.ID, nil, suite.alice.AccessToken)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestToggleTask_Twice() {
	task := suite.createTask(suite.alice.AccessToken, map[string]string{"title": "Flip"})

	w := suite.env.do(suite.T(), http.MethodPost, "/tasks/"+task.ID+"/toggle", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.True(decode[dto.TaskDTO](suite.T(), w).Done)

	w = suite.env.do(suite.T(), http.MethodPost, "/tasks/"+task.ID+"/toggle", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.False(decode[dto.TaskDTO](suite.T(), w).Done)

	w = suite.env.do(suite.T(), http.MethodPost, "/tasks/"+task.ID+"/toggle", nil, suite.bob.AccessToken)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSummary() {
	w := suite.env.do(suite.T(), http.MethodGet, "/tasks/stats/summary", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"total":0,"done":0,"pending":0,"by_priority":{"low":0,"medium":0,"high":0}}`, w.Body.String())

	suite.createTask(suite.alice.AccessToken, map[string]string{"title": "a", "priority": "low"})
	high := suite.createTask(suite.alice.AccessToken, map[string]string{"title": "b", "priority": "high"})
	suite.createTask(suite.alice.AccessToken, map[string]string{"title": "c"})
	suite.createTask(suite.bob.AccessToken, map[string]string{"title": "d"})

	w = suite.env.do(suite.T(), http.MethodPost, "/tasks/"+high.ID+"/toggle", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks/stats/summary", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"total":3,"done":1,"pending":2,"by_priority":{"low":1,"medium":1,"high":1}}`, w.Body.String())
}

func (suite *TaskHandlerTestSuite) TestGenerateTasks_NotConfigured() {
	w := suite.env.do(suite.T(), http.MethodPost, "/tasks/generate", map[string]string{"text": "call mum"}, suite.alice.AccessToken)
	suite.Equal(http.StatusServiceUnavailable, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, "/tasks/generate", map[string]string{}, suite.alice.AccessToken)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// Two users, one task: bob can neither see nor read alice's task.
func (suite *TaskHandlerTestSuite) TestAliceAndBobScenario() {
	task := suite.createTask(suite.alice.AccessToken, map[string]string{"title": "Buy milk"})

	w := suite.env.do(suite.T(), http.MethodGet, "/tasks", nil, suite.bob.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(0, decode[dto.TaskListResponse](suite.T(), w).Total)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks/"+task.ID, nil, suite.bob.AccessToken)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks", nil, suite.alice.AccessToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	list := decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(list.Tasks, 1)
	suite.Equal("Buy milk", list.Tasks[0].Title)
	suite.Equal(models.PriorityMedium, list.Tasks[0].Priority)
	suite.False(list.Tasks[0].Done)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
