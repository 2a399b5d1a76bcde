package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"time-planner/internal/model"
	"time-planner/internal/repository"
	"time-planner/internal/timeutil"
)

const maxTitleLen = 240

// TaskInput represents data required to create a task. Start and end
// are local HH:MM clock times on the given date.
type TaskInput struct {
	Title      string
	CategoryID uint
	Date       string
	StartHHMM  string
	EndHHMM    string
	Notes      string
	IsEvent    bool
	IsReminder bool
}

// TaskUpdate is the allow-listed set of mutable task fields. Nil
// means "leave unchanged".
type TaskUpdate struct {
	Title      *string
	CategoryID *uint
	Start      *time.Time
	End        *time.Time
	Done       *bool
	Notes      *string
	Carryover  *bool
}

// DayItem is one row of the merged task+event day view.
type DayItem struct {
	ID       uint       `json:"id"`
	Title    string     `json:"title"`
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	IsEvent  bool       `json:"isEvent"`
	Done     *bool      `json:"done,omitempty"`
	Location string     `json:"location,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// DayView bundles a day's tasks and events with a merged timeline.
type DayView struct {
	Tasks  []model.Task  `json:"tasks"`
	Events []model.Event `json:"events"`
	Merged []DayItem     `json:"merged"`
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	eventRepo    *repository.EventRepository
	categoryRepo *repository.CategoryRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, eventRepo *repository.EventRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, eventRepo: eventRepo, categoryRepo: categoryRepo}
}

// CreateTask validates input, snapshots the category name and derives
// the UTC interval and duration from the local date and clock times.
func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	if input.Title == "" || len(input.Title) > maxTitleLen {
		return nil, invalid("title", "title must be 1-240 characters")
	}

	date, err := timeutil.ParseDate(input.Date)
	if err != nil {
		return nil, invalid("date", "expected YYYY-MM-DD")
	}

	start, err := timeutil.LocalDateTimeToUTC(input.Date, input.StartHHMM)
	if err != nil {
		return nil, invalid("startHHMM", "expected HH:MM")
	}
	end, err := timeutil.LocalDateTimeToUTC(input.Date, input.EndHHMM)
	if err != nil {
		return nil, invalid("endHHMM", "expected HH:MM")
	}
	if !end.After(start) {
		return nil, invalid("endHHMM", "end time must be after start time")
	}

	category, err := s.categoryRepo.FindByID(ctx, user.ID, input.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	task := model.Task{
		UserID:       user.ID,
		CategoryID:   &category.ID,
		CategoryName: category.Name,
		Title:        input.Title,
		Date:         date,
		Start:        &start,
		End:          &end,
		DurationMin:  timeutil.MinutesBetween(start, end),
		Notes:        input.Notes,
		IsEvent:      input.IsEvent,
		IsReminder:   input.IsReminder,
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListDay returns the tasks anchored to or overlapping the local day,
// the events overlapping it, and a merged timeline sorted by start.
func (s *TaskService) ListDay(ctx context.Context, user *model.User, date string, done *bool) (*DayView, error) {
	dayStart, dayEnd, err := timeutil.DayBounds(date)
	if err != nil {
		return nil, invalid("date", "expected YYYY-MM-DD")
	}

	tasks, err := s.taskRepo.ListForDayView(ctx, user.ID, dayStart, dayEnd, done)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListOverlapping(ctx, user.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	merged := make([]DayItem, 0, len(tasks)+len(events))
	for _, t := range tasks {
		done := t.Done
		merged = append(merged, DayItem{
			ID:      t.ID,
			Title:   t.Title,
			Start:   t.Start,
			End:     t.End,
			IsEvent: false,
			Done:    &done,
			Notes:   t.Notes,
		})
	}
	for _, ev := range events {
		start, end := ev.Start, ev.End
		merged = append(merged, DayItem{
			ID:       ev.ID,
			Title:    ev.Title,
			Start:    &start,
			End:      &end,
			IsEvent:  true,
			Location: ev.Location,
			Notes:    ev.Notes,
		})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		switch {
		case merged[i].Start == nil:
			return false
		case merged[j].Start == nil:
			return true
		default:
			return merged[i].Start.Before(*merged[j].Start)
		}
	})

	return &DayView{Tasks: tasks, Events: events, Merged: merged}, nil
}

// UpdateTask applies allow-listed changes. When both start and end
// change, the duration is recomputed; a new start also re-anchors the
// task's day to the start's UTC date.
func (s *TaskService) UpdateTask(ctx context.Context, user *model.User, taskID uint, update TaskUpdate) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
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
		task.Title = *update.Title
	}
	if update.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, user.ID, *update.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		task.CategoryID = &category.ID
		task.CategoryName = category.Name
	}
	if update.Start != nil && update.End != nil {
		if !update.End.After(*update.Start) {
			return nil, invalid("end", "end time must be after start time")
		}
		task.DurationMin = timeutil.MinutesBetween(*update.Start, *update.End)
	}
	if update.Start != nil {
		start := update.Start.UTC()
		task.Start = &start
		task.Date = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	}
	if update.End != nil {
		end := update.End.UTC()
		task.End = &end
	}
	if update.Done != nil {
		task.Done = *update.Done
	}
	if update.Notes != nil {
		task.Notes = *update.Notes
	}
	if update.Carryover != nil {
		task.Carryover = *update.Carryover
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	err := s.taskRepo.Delete(ctx, user.ID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// TodaySpentHours sums today's timed tasks and rounds to whole hours.
func (s *TaskService) TodaySpentHours(ctx context.Context, user *model.User, now time.Time) (int, error) {
	dayStart, dayEnd, err := timeutil.DayBounds(timeutil.DateString(now))
	if err != nil {
		return 0, err
	}
	tasks, err := s.taskRepo.ListByDay(ctx, user.ID, dayStart, dayEnd)
	if err != nil {
		return 0, err
	}
	spent := 0
	for _, t := range tasks {
		if t.Start != nil && t.End != nil {
			spent += timeutil.MinutesBetween(*t.Start, *t.End)
		}
	}
	return (spent + 30) / 60, nil
}
