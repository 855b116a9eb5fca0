package handlers

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
)

// Router bundles the handlers mounted by RegisterRoutes.
type Router struct {
	Auth     *AuthHandler
	Tasks    *TaskHandler
	Health   *HealthHandler
	Resolver middleware.TokenResolver
}

// RegisterRoutes mounts every endpoint on r.
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	useJSONFieldNames()

	r.GET("/health", rt.Health.Health)
	r.GET("/ready", rt.Health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(rt.Resolver)

	auth := r.Group("/auth")
	{
		auth.POST("/register", rt.Auth.Register)
		auth.POST("/login", rt.Auth.Login)
		auth.POST("/logout", requireAuth, rt.Auth.Logout)
		auth.GET("/me", requireAuth, rt.Auth.GetCurrentUser)
	}

	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		requireTaskID := middleware.RequireTaskID()

		tasks.GET("", rt.Tasks.ListTasks)
		tasks.POST("", rt.Tasks.CreateTask)
		tasks.GET("/stats/summary", rt.Tasks.Summary)
		tasks.POST("/generate", rt.Tasks.GenerateTasks)
		tasks.GET("/:id", requireTaskID, rt.Tasks.GetTask)
		tasks.PATCH("/:id", requireTaskID, rt.Tasks.UpdateTask)
		tasks.DELETE("/:id", requireTaskID, rt.Tasks.DeleteTask)
		tasks.POST("/:id/toggle", requireTaskID, rt.Tasks.ToggleTask)
	}
}

var fieldNamesOnce sync.Once

// useJSONFieldNames makes binding errors report fields by their JSON name.
func useJSONFieldNames() {
	fieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}
