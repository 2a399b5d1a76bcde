package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"time-planner/internal/model"
)

// ReminderRepository handles CRUD for reminders.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID uint) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *ReminderRepository) FindByID(ctx context.Context, userID, reminderID uint) (*model.Reminder, error) {
	var reminder model.Reminder
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, reminderID).First(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *ReminderRepository) Save(ctx context.Context, reminder *model.Reminder) error {
	if err := r.db.WithContext(ctx).Save(reminder).Error; err != nil {
		return fmt.Errorf("save reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, userID, reminderID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, reminderID).Delete(&model.Reminder{})
	if res.Error != nil {
		return fmt.Errorf("delete reminder: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConvertToTask deletes the reminder and creates the task in one
// transaction, so a conversion never leaves both or neither behind.
func (r *ReminderRepository) ConvertToTask(ctx context.Context, reminder *model.Reminder, task *model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND id = ?", reminder.UserID, reminder.ID).Delete(&model.Reminder{})
		if res.Error != nil {
			return fmt.Errorf("delete reminder: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		return nil
	})
}
