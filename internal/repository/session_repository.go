package repository

import (
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Create creates a new session
func (r *GormSessionRepository) Create(session *models.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// FindByTokenHash finds a session by token digest
func (r *GormSessionRepository) FindByTokenHash(tokenHash string) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("token_hash = ?", tokenHash).First(&session).Error; err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

// Delete removes a session; missing rows are ignored
func (r *GormSessionRepository) Delete(tokenHash string) error {
	return r.db.Where("token_hash = ?", tokenHash).Delete(&models.Session{}).Error
}
