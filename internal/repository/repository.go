package repository

import (
	"errors"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateKey is returned when a unique key is already taken.
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create stores a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id string) (*models.Task, error)

	// List returns the tasks matching filter in creation order
	List(filter TaskFilter) ([]models.Task, error)

	// Modify loads a task, hands it to fn and stores the result.
	// Nothing is stored when fn returns an error.
	Modify(id string, fn func(task *models.Task) error) (*models.Task, error)

	// DeleteIf removes a task when check returns nil.
	DeleteIf(id string, check func(task *models.Task) error) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID  string
	Done     *bool
	Priority *models.Priority
	Search   string
}

// Matches reports whether task passes every filter that is set.
func (f TaskFilter) Matches(task *models.Task) bool {
	if task.OwnerID != f.OwnerID {
		return false
	}
	if f.Done != nil && task.Done != *f.Done {
		return false
	}
	if f.Priority != nil && task.Priority != *f.Priority {
		return false
	}
	return f.MatchesSearch(task)
}

// MatchesSearch reports whether the search term occurs in the title or
// description, ignoring case. An empty term matches everything.
func (f TaskFilter) MatchesSearch(task *models.Task) bool {
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(task.Title), term) {
		return true
	}
	return task.Description != nil && strings.Contains(strings.ToLower(*task.Description), term)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create stores a new user. Returns ErrDuplicateKey if the username is taken.
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Create stores a new session
	Create(session *models.Session) error

	// FindByTokenHash finds a session by the digest of its token
	FindByTokenHash(tokenHash string) (*models.Session, error)

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(tokenHash string) error
}
