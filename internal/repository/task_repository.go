package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// List retrieves the owner's tasks with filtering
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Model(&models.Task{}).
		Scopes(ownedBy(filter.OwnerID), withDone(filter.Done), withPriority(filter.Priority)).
		Order("tasks.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	// sqlite's LOWER() only folds ASCII, so search runs here.
	result := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if filter.MatchesSearch(&tasks[i]) {
			result = append(result, tasks[i])
		}
	}
	return result, nil
}

// Modify loads, mutates and saves a task within one transaction
func (r *GormTaskRepository) Modify(id string, fn func(task *models.Task) error) (*models.Task, error) {
	var task models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			return translateError(err)
		}
		if err := fn(&task); err != nil {
			return err
		}
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteIf deletes a task within one transaction when check passes
func (r *GormTaskRepository) DeleteIf(id string, check func(task *models.Task) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			return translateError(err)
		}
		if check != nil {
			if err := check(&task); err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&models.Task{}).Error
	})
}

// translateError maps gorm errors onto the repository sentinels.
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
