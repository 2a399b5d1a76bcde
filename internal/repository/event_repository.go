package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"time-planner/internal/model"
)

// EventRepository handles CRUD for calendar events.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// ListOverlapping returns events intersecting [from, to):
// start < to AND end > from.
func (r *EventRepository) ListOverlapping(ctx context.Context, userID uint, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND start < ? AND `end` > ?", userID, to, from).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListStartingIn returns events whose start falls inside [from, to).
func (r *EventRepository) ListStartingIn(ctx context.Context, userID uint, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND start >= ? AND start < ?", userID, from, to).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) FindByID(ctx context.Context, userID, eventID uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, eventID).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Save(ctx context.Context, event *model.Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, userID, eventID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, eventID).Delete(&model.Event{})
	if res.Error != nil {
		return fmt.Errorf("delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
