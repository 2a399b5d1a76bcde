package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"time-planner/internal/model"
	"time-planner/internal/repository"
	"time-planner/internal/timeutil"
)

// Conversion defaults: a converted reminder becomes a one-hour task
// in the user's default category.
const (
	convertedDurationMin = 60
	defaultCategoryName  = "Work"
)

// ReminderInput represents data required to create a reminder. Date
// and Time are local (YYYY-MM-DD, HH:MM).
type ReminderInput struct {
	Title       string
	Description string
	Date        string
	Time        string
}

// ReminderUpdate is the allow-listed set of mutable reminder fields.
type ReminderUpdate struct {
	Title       *string
	Description *string
	DueAt       *time.Time
}

// ReminderService wraps reminder business logic, including the
// reminder-to-task conversion.
type ReminderService struct {
	reminderRepo *repository.ReminderRepository
	categoryRepo *repository.CategoryRepository
}

func NewReminderService(reminderRepo *repository.ReminderRepository, categoryRepo *repository.CategoryRepository) *ReminderService {
	return &ReminderService{reminderRepo: reminderRepo, categoryRepo: categoryRepo}
}

func (s *ReminderService) List(ctx context.Context, user *model.User) ([]model.Reminder, error) {
	return s.reminderRepo.ListByUser(ctx, user.ID)
}

func (s *ReminderService) Create(ctx context.Context, user *model.User, input ReminderInput) (*model.Reminder, error) {
	if input.Title == "" {
		return nil, invalid("title", "title is required")
	}

	reminder := model.Reminder{
		UserID:      user.ID,
		Title:       input.Title,
		Description: input.Description,
	}
	if input.Date != "" || input.Time != "" {
		dueAt, err := timeutil.LocalDateTimeToUTC(input.Date, input.Time)
		if err != nil {
			return nil, invalid("date", "invalid date or time format")
		}
		reminder.DueAt = &dueAt
	}

	if err := s.reminderRepo.Create(ctx, &reminder); err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (s *ReminderService) Update(ctx context.Context, user *model.User, reminderID uint, update ReminderUpdate) (*model.Reminder, error) {
	reminder, err := s.reminderRepo.FindByID(ctx, user.ID, reminderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, invalid("title", "title is required")
		}
		reminder.Title = *update.Title
	}
	if update.Description != nil {
		reminder.Description = *update.Description
	}
	if update.DueAt != nil {
		dueAt := update.DueAt.UTC()
		reminder.DueAt = &dueAt
	}

	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *ReminderService) Delete(ctx context.Context, user *model.User, reminderID uint) error {
	err := s.reminderRepo.Delete(ctx, user.ID, reminderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Convert turns a reminder into a one-hour task at its due instant
// and deletes the reminder. Both happen in one transaction.
func (s *ReminderService) Convert(ctx context.Context, user *model.User, reminderID uint) (*model.Task, error) {
	reminder, err := s.reminderRepo.FindByID(ctx, user.ID, reminderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if reminder.DueAt == nil {
		return nil, invalid("dueAt", "reminder has no due date")
	}

	category, err := s.categoryRepo.GetOrCreate(ctx, user.ID, defaultCategoryName)
	if err != nil {
		return nil, err
	}

	start := reminder.DueAt.UTC()
	end := start.Add(time.Hour)
	task := model.Task{
		UserID:       user.ID,
		CategoryID:   &category.ID,
		CategoryName: category.Name,
		Title:        reminder.Title,
		Notes:        reminder.Description,
		Date:         time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		Start:        &start,
		End:          &end,
		DurationMin:  convertedDurationMin,
		IsReminder:   true,
	}

	if err := s.reminderRepo.ConvertToTask(ctx, reminder, &task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}
