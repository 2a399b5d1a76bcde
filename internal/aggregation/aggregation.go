package aggregation

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"time-planner/internal/model"
	"time-planner/internal/repository"
	"time-planner/internal/timeutil"
)

// streakThreshold is the minimum productive minutes for a day to
// extend a streak.
const streakThreshold = 60

const (
	uncategorizedID   = "uncategorized"
	uncategorizedName = "Uncategorized"
)

// Service computes day/week time-accounting over task and event
// records and maintains the durable weekly aggregates. Methods return
// plain data so HTTP handlers and the persister share one code path.
type Service struct {
	tasks            *repository.TaskRepository
	events           *repository.EventRepository
	analytics        *repository.AnalyticsRepository
	defaultBudgetMin int
}

func New(tasks *repository.TaskRepository, events *repository.EventRepository, analytics *repository.AnalyticsRepository, defaultBudgetMin int) *Service {
	return &Service{tasks: tasks, events: events, analytics: analytics, defaultBudgetMin: defaultBudgetMin}
}

// TaskProgress holds completion ratios for a day. Both ratios are 0
// when their denominator is 0.
type TaskProgress struct {
	Simple       float64 `json:"simple"`
	TimeWeighted float64 `json:"timeWeighted"`
}

// DaySummary is the budget accounting for one local day.
type DaySummary struct {
	BudgetMin           int                     `json:"budgetMin"`
	SpentMin            int                     `json:"spentMin"`
	RemainingMin        int                     `json:"remainingMin"`
	TaskProgress        TaskProgress            `json:"taskProgress"`
	BreakdownByCategory []model.CategoryMinutes `json:"breakdownByCategory"`

	// Split kept for the weekly persister; not part of the response.
	TaskMinutes  int `json:"-"`
	EventMinutes int `json:"-"`
}

// DayMinutes is one day's total inside a weekly trend.
type DayMinutes struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// WeeklyTrends is the Monday-aligned 7-day view. ByCategory holds
// per-day averages (week totals divided by 7); FocusRatio is average
// productive hours per day counting only days with activity.
type WeeklyTrends struct {
	ByCategory []model.CategoryMinutes `json:"byCategory"`
	Daily      []DayMinutes            `json:"daily"`
	FocusRatio float64                 `json:"focusRatio"`
	Streak     int                     `json:"streak"`
}

// WeeklyReport is the stored aggregate plus display-only derived
// fields for the read path.
type WeeklyReport struct {
	WeekStart              string                  `json:"weekStart"`
	TotalMinutes           int                     `json:"totalMinutes"`
	Daily                  []model.DailyAnalytics  `json:"daily"`
	ByCategory             []model.CategoryMinutes `json:"byCategory"`
	FocusRatio             model.FocusRatio        `json:"focusRatio"`
	Streak                 int                     `json:"streak"`
	AverageProductiveHours float64                 `json:"averageProductiveHours"`
	TotalRestMinutes       int                     `json:"totalRestMinutes"`
}

// dayTotals fetches and sums one day's task and event minutes. Event
// intervals are clamped to the day window before counting.
func (s *Service) dayTotals(ctx context.Context, userID uint, dayStart, dayEnd time.Time) (tasks []model.Task, taskMinutes, eventMinutes int, err error) {
	tasks, err = s.tasks.ListByDay(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, 0, 0, err
	}
	events, err := s.events.ListOverlapping(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, 0, 0, err
	}

	for _, t := range tasks {
		taskMinutes += t.DurationMin
	}
	for _, ev := range events {
		if cs, ce, ok := timeutil.ClampToDay(ev.Start, ev.End, dayStart, dayEnd); ok {
			eventMinutes += timeutil.MinutesBetween(cs, ce)
		}
	}
	return tasks, taskMinutes, eventMinutes, nil
}

func categoryKey(t model.Task) (id, name string) {
	if t.CategoryID == nil {
		return uncategorizedID, uncategorizedName
	}
	name = t.CategoryName
	if name == "" {
		name = uncategorizedName
	}
	return strconv.FormatUint(uint64(*t.CategoryID), 10), name
}

// addCategoryMinutes accumulates into an insertion-ordered list.
func addCategoryMinutes(list []model.CategoryMinutes, id, name string, minutes float64) []model.CategoryMinutes {
	for i := range list {
		if list[i].CategoryID == id {
			list[i].Minutes += minutes
			return list
		}
	}
	return append(list, model.CategoryMinutes{CategoryID: id, Name: name, Minutes: minutes})
}

func categoryBreakdown(tasks []model.Task) []model.CategoryMinutes {
	breakdown := make([]model.CategoryMinutes, 0)
	for _, t := range tasks {
		id, name := categoryKey(t)
		breakdown = addCategoryMinutes(breakdown, id, name, float64(t.DurationMin))
	}
	return breakdown
}

// DaySummary computes minutes spent, budget remaining, completion
// ratios and the per-category breakdown for one local day.
func (s *Service) DaySummary(ctx context.Context, user *model.User, date string) (*DaySummary, error) {
	dayStart, dayEnd, err := timeutil.DayBounds(date)
	if err != nil {
		return nil, err
	}

	tasks, taskMinutes, eventMinutes, err := s.dayTotals(ctx, user.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	budgetMin := user.DailyBudgetMin
	if budgetMin <= 0 {
		budgetMin = s.defaultBudgetMin
	}
	spentMin := taskMinutes + eventMinutes

	var doneCount, doneMinutes int
	for _, t := range tasks {
		if t.Done {
			doneCount++
			doneMinutes += t.DurationMin
		}
	}

	progress := TaskProgress{}
	if len(tasks) > 0 {
		progress.Simple = float64(doneCount) / float64(len(tasks))
		// All tasks can be durationless; leave the ratio at 0 then.
		if taskMinutes > 0 {
			progress.TimeWeighted = float64(doneMinutes) / float64(taskMinutes)
		}
	}

	return &DaySummary{
		BudgetMin:           budgetMin,
		SpentMin:            spentMin,
		RemainingMin:        budgetMin - spentMin,
		TaskProgress:        progress,
		BreakdownByCategory: categoryBreakdown(tasks),
		TaskMinutes:         taskMinutes,
		EventMinutes:        eventMinutes,
	}, nil
}

// WeeklyTrends walks the 7 days of the Monday-aligned week containing
// start. Events count toward daily totals and the streak, but only
// tasks feed the category breakdown.
func (s *Service) WeeklyTrends(ctx context.Context, user *model.User, start string) (*WeeklyTrends, error) {
	startDate, err := timeutil.ParseDate(start)
	if err != nil {
		return nil, err
	}
	monday := timeutil.MondayOf(startDate)

	daily := make([]DayMinutes, 0, 7)
	byCategory := make([]model.CategoryMinutes, 0)
	var streak, currentStreak, totalSpent, daysWithData int

	for i := 0; i < 7; i++ {
		date := timeutil.DateString(monday.AddDate(0, 0, i))
		dayStart, dayEnd, err := timeutil.DayBounds(date)
		if err != nil {
			return nil, err
		}

		tasks, taskMinutes, eventMinutes, err := s.dayTotals(ctx, user.ID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}

		totalMinutes := taskMinutes + eventMinutes
		totalSpent += totalMinutes
		daily = append(daily, DayMinutes{Date: date, Minutes: totalMinutes})
		if totalMinutes > 0 {
			daysWithData++
		}

		for _, t := range tasks {
			id, name := categoryKey(t)
			byCategory = addCategoryMinutes(byCategory, id, name, float64(t.DurationMin))
		}

		if totalMinutes >= streakThreshold {
			currentStreak++
		} else {
			if currentStreak > streak {
				streak = currentStreak
			}
			currentStreak = 0
		}
	}
	if currentStreak > streak {
		streak = currentStreak
	}

	var focusRatio float64
	if daysWithData > 0 {
		focusRatio = float64(totalSpent) / float64(daysWithData) / 60
	}

	// Per-day averages: always divided by 7, regardless of how many
	// days had data for the category.
	averages := make([]model.CategoryMinutes, 0, len(byCategory))
	for _, c := range byCategory {
		averages = append(averages, model.CategoryMinutes{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Minutes:    c.Minutes / 7,
		})
	}

	return &WeeklyTrends{
		ByCategory: averages,
		Daily:      daily,
		FocusRatio: focusRatio,
		Streak:     streak,
	}, nil
}

// UpdateWeeklyAnalytics recomputes today's summary and the week's
// trends and merges them into the stored aggregate. The daily list is
// merged entry-by-entry (overwrite, never duplicate); the week-level
// fields are overwritten wholesale from a fresh 7-day scan, so the
// call is idempotent.
func (s *Service) UpdateWeeklyAnalytics(ctx context.Context, user *model.User, target time.Time) (*model.WeeklyAnalytics, error) {
	today := timeutil.DateString(target)
	day, err := s.DaySummary(ctx, user, today)
	if err != nil {
		return nil, err
	}

	weekStart := timeutil.DateString(timeutil.MondayOf(target.UTC()))
	trends, err := s.WeeklyTrends(ctx, user, weekStart)
	if err != nil {
		return nil, err
	}

	analytics, err := s.analytics.FindByWeek(ctx, user.ID, weekStart)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		analytics = &model.WeeklyAnalytics{
			UserID:     user.ID,
			WeekStart:  weekStart,
			Daily:      make([]model.DailyAnalytics, 0),
			ByCategory: make([]model.CategoryMinutes, 0),
		}
	default:
		return nil, err
	}

	merged := false
	for i := range analytics.Daily {
		if analytics.Daily[i].Date == today {
			analytics.Daily[i].SpentMin = day.SpentMin
			analytics.Daily[i].TaskMinutes = day.TaskMinutes
			analytics.Daily[i].EventMinutes = day.EventMinutes
			analytics.Daily[i].ProductiveMinutes = day.SpentMin
			merged = true
			break
		}
	}
	if !merged {
		analytics.Daily = append(analytics.Daily, model.DailyAnalytics{
			Date:              today,
			SpentMin:          day.SpentMin,
			TaskMinutes:       day.TaskMinutes,
			EventMinutes:      day.EventMinutes,
			ProductiveMinutes: day.SpentMin,
			ByCategory:        day.BreakdownByCategory,
		})
	}

	total := 0
	for _, d := range trends.Daily {
		total += d.Minutes
	}
	analytics.TotalMinutes = total

	// Trends reports per-day averages; restore week totals.
	weekCategories := make([]model.CategoryMinutes, 0, len(trends.ByCategory))
	for _, c := range trends.ByCategory {
		weekCategories = append(weekCategories, model.CategoryMinutes{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Minutes:    c.Minutes * 7,
		})
	}
	analytics.ByCategory = weekCategories

	analytics.FocusRatio = model.FocusRatio{ActiveMin: trends.FocusRatio * 60, RestMin: 0}
	analytics.Streak = trends.Streak

	if err := s.analytics.Save(ctx, analytics); err != nil {
		return nil, err
	}
	return analytics, nil
}

// WeeklyReport returns the stored aggregate for the week containing
// target, or an all-zero structure when none exists. Reading never
// writes.
func (s *Service) WeeklyReport(ctx context.Context, user *model.User, target time.Time) (*WeeklyReport, error) {
	weekStart := timeutil.DateString(timeutil.MondayOf(target.UTC()))

	analytics, err := s.analytics.FindByWeek(ctx, user.ID, weekStart)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &WeeklyReport{
			WeekStart:  weekStart,
			Daily:      make([]model.DailyAnalytics, 0),
			ByCategory: make([]model.CategoryMinutes, 0),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	daily := analytics.Daily
	if daily == nil {
		daily = make([]model.DailyAnalytics, 0)
	}
	byCategory := analytics.ByCategory
	if byCategory == nil {
		byCategory = make([]model.CategoryMinutes, 0)
	}

	return &WeeklyReport{
		WeekStart:              weekStart,
		TotalMinutes:           analytics.TotalMinutes,
		Daily:                  daily,
		ByCategory:             byCategory,
		FocusRatio:             analytics.FocusRatio,
		Streak:                 analytics.Streak,
		AverageProductiveHours: float64(analytics.TotalMinutes) / 60 / 7,
		TotalRestMinutes:       7*24*60 - analytics.TotalMinutes,
	}, nil
}
