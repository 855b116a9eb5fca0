package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type testEnv struct {
	router      *gin.Engine
	health      *HealthHandler
	authService *services.AuthService
	sessions    *services.SessionService
	tasks       *services.TaskService
}

func setupTestEnv(t *testing.T, aiService *services.AIService) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := services.NewAuthService(repository.NewMemoryUserRepository(), services.SHA256Hasher{})
	sessionService := services.NewSessionService(repository.NewMemorySessionRepository(), authService)
	taskService := services.NewTaskService(repository.NewMemoryTaskRepository(), aiService)
	health := NewHealthHandler()

	r := gin.New()
	(&Router{
		Auth:     NewAuthHandler(authService, sessionService),
		Tasks:    NewTaskHandler(taskService),
		Health:   health,
		Resolver: sessionService,
	}).RegisterRoutes(r)

	return testEnv{
		router:      r,
		health:      health,
		authService: authService,
		sessions:    sessionService,
		tasks:       taskService,
	}
}

// do sends a request with an optional JSON body and bearer token.
func (env testEnv) do(t *testing.T, method, url string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates a user through the API and returns its token.
func (env testEnv) registerAndLogin(t *testing.T, username, password string) dto.LoginResponse {
	t.Helper()

	w := env.do(t, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	return login
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
