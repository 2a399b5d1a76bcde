package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"time-planner/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByDay returns tasks whose day anchor falls inside [dayStart, dayEnd).
func (r *TaskRepository) ListByDay(ctx context.Context, userID uint, dayStart, dayEnd time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListForDayView returns tasks anchored to the day or overlapping its
// window, optionally filtered by done, ordered by start time.
func (r *TaskRepository) ListForDayView(ctx context.Context, userID uint, dayStart, dayEnd time.Time, done *bool) ([]model.Task, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("(date >= ? AND date < ?) OR (start < ? AND `end` > ?)", dayStart, dayEnd, dayEnd, dayStart)
	if done != nil {
		q = q.Where("done = ?", *done)
	}
	var tasks []model.Task
	if err := q.Order("start ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
