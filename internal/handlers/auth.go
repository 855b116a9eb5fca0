package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/metrics"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService    *services.AuthService
	sessionService *services.SessionService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, sessionService *services.SessionService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
	}
}

// Register creates a new user.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string  `json:"username" binding:"required"`
		Password string  `json:"password" binding:"required"`
		FullName *string `json:"full_name"`
	}

	message := fmt.Sprintf(
		"Username must be at least %d and password at least %d characters",
		constants.MinUsernameLength, constants.MinPasswordLength,
	)
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, message, apierrors.ValidationDetails(err))
		return
	}
	if details := registrationLengthErrors(req.Username, req.Password); details != nil {
		apierrors.BadRequestWithDetails(c, message, details)
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	metrics.AuthEventsTotal.WithLabelValues("register", metrics.Outcome(err)).Inc()
	if err != nil {
		respondAuthError(c, err)
		return
	}

	zerolog.Ctx(c.Request.Context()).Info().Str("user_id", user.ID).Msg("User registered")
	c.JSON(http.StatusCreated, dto.ToRegisterResponse(*user))
}

// Login authenticates a user and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Authenticate(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		metrics.AuthEventsTotal.WithLabelValues("login", metrics.OutcomeFailure).Inc()
		respondAuthError(c, err)
		return
	}

	token, err := h.sessionService.Issue(user.ID)
	metrics.AuthEventsTotal.WithLabelValues("login", metrics.Outcome(err)).Inc()
	if err != nil {
		respondAuthError(c, err)
		return
	}

	zerolog.Ctx(c.Request.Context()).Info().Str("user_id", user.ID).Msg("Login successful")
	c.JSON(http.StatusOK, dto.ToLoginResponse(*user, token))
}

// Logout revokes the token used for this request.
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	token, hasToken := middleware.GetToken(c)
	if !ok || !hasToken {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	err := h.sessionService.Revoke(token)
	metrics.AuthEventsTotal.WithLabelValues("logout", metrics.Outcome(err)).Inc()
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Goodbye, %s!", user.Username),
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func registrationLengthErrors(username, password string) map[string]string {
	details := map[string]string{}
	if utf8.RuneCountInString(username) < constants.MinUsernameLength {
		details["username"] = fmt.Sprintf("min=%d", constants.MinUsernameLength)
	}
	if utf8.RuneCountInString(password) < constants.MinPasswordLength {
		details["password"] = fmt.Sprintf("min=%d", constants.MinPasswordLength)
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "Username already taken")
	case errors.Is(err, services.ErrInvalidCredentials):
		zerolog.Ctx(c.Request.Context()).Warn().Msg("Login failed")
		apierrors.InvalidCredentials(c, "Incorrect username or password")
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, "Invalid or expired token")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Auth request failed")
		apierrors.InternalError(c, "")
	}
}
