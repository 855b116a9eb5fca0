package repository

import (
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// ownedBy restricts a task query to one owner
func ownedBy(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.owner_id = ?", ownerID)
	}
}

// withDone filters by completion when done is set
func withDone(done *bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if done == nil {
			return db
		}
		return db.Where("tasks.done = ?", *done)
	}
}

// withPriority filters by priority when priority is set
func withPriority(priority *models.Priority) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if priority == nil {
			return db
		}
		return db.Where("tasks.priority = ?", *priority)
	}
}
