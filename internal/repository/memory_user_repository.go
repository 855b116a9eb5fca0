package repository

import (
	"sync"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// MemoryUserRepository keeps users in memory with a username index.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	users      map[string]models.User
	byUsername map[string]string
}

// NewMemoryUserRepository creates an empty in-memory UserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:      make(map[string]models.User),
		byUsername: make(map[string]string),
	}
}

// Create stores a new user; usernames compare case-sensitively
func (r *MemoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return ErrDuplicateKey
	}
	if _, exists := r.users[user.ID]; exists {
		return ErrDuplicateKey
	}

	r.users[user.ID] = user.Clone()
	r.byUsername[user.Username] = user.ID
	return nil
}

// FindByID finds a user by ID
func (r *MemoryUserRepository) FindByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := user.Clone()
	return &c, nil
}

// FindByUsername finds a user by username
func (r *MemoryUserRepository) FindByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	c := r.users[id].Clone()
	return &c, nil
}
