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

// EventInput represents data required to create a calendar event.
type EventInput struct {
	Title    string
	Start    time.Time
	End      time.Time
	AllDay   bool
	Location string
	Notes    string
}

// EventUpdate is the allow-listed set of mutable event fields.
type EventUpdate struct {
	Title    *string
	Start    *time.Time
	End      *time.Time
	AllDay   *bool
	Location *string
	Notes    *string
}

// EventService wraps calendar-event business logic.
type EventService struct {
	eventRepo *repository.EventRepository
}

func NewEventService(eventRepo *repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

func (s *EventService) CreateEvent(ctx context.Context, user *model.User, input EventInput) (*model.Event, error) {
	if input.Title == "" || len(input.Title) > maxTitleLen {
		return nil, invalid("title", "title must be 1-240 characters")
	}
	if !input.End.After(input.Start) {
		return nil, invalid("end", "end time must be after start time")
	}

	event := model.Event{
		UserID:   user.ID,
		Title:    input.Title,
		Start:    input.Start.UTC(),
		End:      input.End.UTC(),
		AllDay:   input.AllDay,
		Location: input.Location,
		Notes:    input.Notes,
		Source:   model.EventSourceManual,
	}
	if err := s.eventRepo.Create(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListRange returns events overlapping [from, to).
func (s *EventService) ListRange(ctx context.Context, user *model.User, from, to time.Time) ([]model.Event, error) {
	if !to.After(from) {
		return nil, invalid("to", "to must be after from")
	}
	return s.eventRepo.ListOverlapping(ctx, user.ID, from, to)
}

func (s *EventService) UpdateEvent(ctx context.Context, user *model.User, eventID uint, update EventUpdate) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, user.ID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" || len(*update.Title) > maxTitleLen {
			return nil, invalid("title", "title must be 1-240 characters")
		}
		event.Title = *update.Title
	}
	if update.Start != nil && update.End != nil && !update.End.After(*update.Start) {
		return nil, invalid("end", "end time must be after start time")
	}
	if update.Start != nil {
		event.Start = update.Start.UTC()
	}
	if update.End != nil {
		event.End = update.End.UTC()
	}
	if update.AllDay != nil {
		event.AllDay = *update.AllDay
	}
	if update.Location != nil {
		event.Location = *update.Location
	}
	if update.Notes != nil {
		event.Notes = *update.Notes
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, user *model.User, eventID uint) error {
	err := s.eventRepo.Delete(ctx, user.ID, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// TodayEvents returns events starting inside today's local window.
func (s *EventService) TodayEvents(ctx context.Context, user *model.User, now time.Time) ([]model.Event, error) {
	dayStart, dayEnd, err := timeutil.DayBounds(timeutil.DateString(now))
	if err != nil {
		return nil, err
	}
	return s.eventRepo.ListStartingIn(ctx, user.ID, dayStart, dayEnd)
}
