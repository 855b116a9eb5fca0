package repository

import (
	"errors"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user, rejecting taken usernames
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("username = ?", user.Username).First(&existing).Error
		if err == nil {
			return ErrDuplicateKey
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(user).Error; err != nil {
			return translateError(err)
		}
		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}
