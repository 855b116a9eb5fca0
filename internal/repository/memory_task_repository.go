package repository

import (
	"sort"
	"sync"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// MemoryTaskRepository keeps tasks in a map guarded by a single lock.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
}

// NewMemoryTaskRepository creates an empty in-memory TaskRepository
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[string]models.Task)}
}

// Create stores a new task
func (r *MemoryTaskRepository) Create(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return ErrDuplicateKey
	}
	r.tasks[task.ID] = task.Clone()
	return nil
}

// FindByID finds a task by ID
func (r *MemoryTaskRepository) FindByID(id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := task.Clone()
	return &c, nil
}

// List returns the tasks matching filter, ordered by ID
func (r *MemoryTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Task, 0)
	for _, task := range r.tasks {
		if filter.Matches(&task) {
			result = append(result, task.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Modify applies fn to a copy of the task and stores it if fn succeeds
func (r *MemoryTaskRepository) Modify(id string, fn func(task *models.Task) error) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}

	working := current.Clone()
	if err := fn(&working); err != nil {
		return nil, err
	}
	r.tasks[id] = working

	c := working.Clone()
	return &c, nil
}

// DeleteIf removes the task when check passes
func (r *MemoryTaskRepository) DeleteIf(id string, check func(task *models.Task) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[id]
	if !ok {
		return ErrNotFound
	}
	if check != nil {
		c := current.Clone()
		if err := check(&c); err != nil {
			return err
		}
	}
	delete(r.tasks, id)
	return nil
}
