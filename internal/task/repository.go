package task

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("task record not found")

type TaskRepository interface {
	Create(t *Task) error
	Update(t *Task) error
	FindByIdAndUserId(id, userID uuid.UUID) (*Task, error)
	ListByUser(userID uuid.UUID) ([]*Task, error)
	Delete(id, userID uuid.UUID) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(t *Task) error {
	return r.db.Create(t).Error
}

func (r *taskRepository) Update(t *Task) error {
	return r.db.Save(t).Error
}

func (r *taskRepository) FindByIdAndUserId(id, userID uuid.UUID) (*Task, error) {
	var t Task
	if err := r.db.First(&t, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) ListByUser(userID uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	if err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Delete(id, userID uuid.UUID) error {
	result := r.db.Delete(&Task{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
