package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

// RequireTaskID rejects task routes whose :id is not a well-formed task ID.
// Such IDs can never match a task, so they are reported as not found.
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := ulid.ParseStrict(c.Param("id")); err != nil {
			apierrors.NotFound(c, "Task not found")
			return
		}
		c.Next()
	}
}
