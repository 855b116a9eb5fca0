package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

var ErrUnauthenticated = errors.New("invalid or expired token")

// UserLookup resolves a user id to its record.
type UserLookup interface {
	GetUser(id string) (*models.User, error)
}

// SessionService issues, resolves and revokes bearer tokens.
type SessionService struct {
	sessionRepo repository.SessionRepository
	users       UserLookup
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo repository.SessionRepository, users UserLookup) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		users:       users,
	}
}

// Issue creates a new token for userID. Existing tokens stay valid.
func (s *SessionService) Issue(userID string) (string, error) {
	token, err := utils.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	session := &models.Session{
		TokenHash: utils.HashToken(token),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Resolve returns the user that owns token.
func (s *SessionService) Resolve(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessionRepo.FindByTokenHash(utils.HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	user, err := s.users.GetUser(session.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return user, nil
}

// Revoke invalidates token. Unknown tokens are ignored.
func (s *SessionService) Revoke(token string) error {
	if err := s.sessionRepo.Delete(utils.HashToken(token)); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
