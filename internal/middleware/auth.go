package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/metrics"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// TokenResolver maps a bearer token to the user that owns it.
type TokenResolver interface {
	Resolve(token string) (*models.User, error)
}

// RequireAuth checks the Authorization header and resolves the bearer token
// on every request.
func RequireAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			metrics.AuthEventsTotal.WithLabelValues("resolve", metrics.OutcomeFailure).Inc()
			apierrors.Unauthorized(c, "Missing or invalid token")
			return
		}

		user, err := resolver.Resolve(token)
		if err != nil {
			metrics.AuthEventsTotal.WithLabelValues("resolve", metrics.OutcomeFailure).Inc()
			if errors.Is(err, services.ErrUnauthenticated) {
				apierrors.Unauthorized(c, "Invalid or expired token")
				return
			}
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to resolve token")
			apierrors.InternalError(c, "")
			return
		}
		metrics.AuthEventsTotal.WithLabelValues("resolve", metrics.OutcomeSuccess).Inc()

		// Store the caller in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyToken, token)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetCurrentUser retrieves the resolved user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// GetToken retrieves the bearer token of the current request
func GetToken(c *gin.Context) (string, bool) {
	token := c.GetString(constants.ContextKeyToken)
	return token, token != ""
}
