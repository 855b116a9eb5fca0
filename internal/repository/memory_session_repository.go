package repository

import (
	"sync"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// MemorySessionRepository keeps sessions in memory keyed by token digest.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemorySessionRepository creates an empty in-memory SessionRepository
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]models.Session)}
}

// Create stores a new session
func (r *MemorySessionRepository) Create(session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.TokenHash]; exists {
		return ErrDuplicateKey
	}
	r.sessions[session.TokenHash] = *session
	return nil
}

// FindByTokenHash finds a session by token digest
func (r *MemorySessionRepository) FindByTokenHash(tokenHash string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[tokenHash]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

// Delete removes a session if present
func (r *MemorySessionRepository) Delete(tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, tokenHash)
	return nil
}
