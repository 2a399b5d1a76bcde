package aggregation

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"time-planner/internal/model"
	"time-planner/internal/repository"
	"time-planner/internal/timeutil"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Task{},
		&model.Event{},
		&model.Reminder{},
		&model.WeeklyAnalytics{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db      *gorm.DB
	svc     *Service
	user    *model.User
	catWork *model.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	user := &model.User{Username: "testuser01", Email: "test@example.com", DailyBudgetMin: 720}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	cat := &model.Category{UserID: user.ID, Name: "Work", Position: 0}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	svc := New(
		repository.NewTaskRepository(db),
		repository.NewEventRepository(db),
		repository.NewAnalyticsRepository(db),
		720,
	)
	return &fixture{db: db, svc: svc, user: user, catWork: cat}
}

// seedTask anchors a task (with the given duration) on a local date.
func (f *fixture) seedTask(t *testing.T, date string, durationMin int, done bool, cat *model.Category) {
	t.Helper()
	anchor, err := timeutil.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	task := model.Task{
		UserID:      f.user.ID,
		Title:       "task",
		Date:        anchor,
		DurationMin: durationMin,
		Done:        done,
	}
	if cat != nil {
		task.CategoryID = &cat.ID
		task.CategoryName = cat.Name
	}
	if err := f.db.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
}

func (f *fixture) seedEvent(t *testing.T, start, end time.Time) {
	t.Helper()
	event := model.Event{UserID: f.user.ID, Title: "event", Start: start, End: end, Source: model.EventSourceManual}
	if err := f.db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
}

func TestDaySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedTask(t, "2025-09-11", 90, false, f.catWork)
	// Event fully inside the local day, 30 minutes.
	evStart := time.Date(2025, 9, 11, 1, 0, 0, 0, time.UTC)
	f.seedEvent(t, evStart, evStart.Add(30*time.Minute))

	got, err := f.svc.DaySummary(ctx, f.user, "2025-09-11")
	if err != nil {
		t.Fatalf("DaySummary: %v", err)
	}
	if got.SpentMin != 120 {
		t.Errorf("SpentMin = %d, want 120", got.SpentMin)
	}
	if got.BudgetMin != 720 {
		t.Errorf("BudgetMin = %d, want 720", got.BudgetMin)
	}
	if got.RemainingMin != 600 {
		t.Errorf("RemainingMin = %d, want 600", got.RemainingMin)
	}
	if got.TaskMinutes != 90 || got.EventMinutes != 30 {
		t.Errorf("split = (%d, %d), want (90, 30)", got.TaskMinutes, got.EventMinutes)
	}
	if len(got.BreakdownByCategory) != 1 || got.BreakdownByCategory[0].Name != "Work" || got.BreakdownByCategory[0].Minutes != 90 {
		t.Errorf("breakdown = %+v, want one Work entry with 90 minutes", got.BreakdownByCategory)
	}
}

func TestDaySummaryEventClampedToWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dayStart, _, err := timeutil.DayBounds("2025-09-11")
	if err != nil {
		t.Fatal(err)
	}
	// Starts an hour before the local day; only the inside hour counts.
	f.seedEvent(t, dayStart.Add(-time.Hour), dayStart.Add(time.Hour))

	got, err := f.svc.DaySummary(ctx, f.user, "2025-09-11")
	if err != nil {
		t.Fatalf("DaySummary: %v", err)
	}
	if got.SpentMin != 60 {
		t.Errorf("SpentMin = %d, want 60 (clamped)", got.SpentMin)
	}
}

func TestDaySummaryProgressGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No tasks at all: both ratios are 0.
	got, err := f.svc.DaySummary(ctx, f.user, "2025-09-11")
	if err != nil {
		t.Fatal(err)
	}
	if got.TaskProgress.Simple != 0 || got.TaskProgress.TimeWeighted != 0 {
		t.Errorf("progress with no tasks = %+v, want zeros", got.TaskProgress)
	}

	// Durationless tasks: simple ratio counts, time-weighted stays 0
	// instead of dividing by zero.
	f.seedTask(t, "2025-09-12", 0, true, f.catWork)
	f.seedTask(t, "2025-09-12", 0, false, f.catWork)

	got, err = f.svc.DaySummary(ctx, f.user, "2025-09-12")
	if err != nil {
		t.Fatal(err)
	}
	if got.TaskProgress.Simple != 0.5 {
		t.Errorf("Simple = %v, want 0.5", got.TaskProgress.Simple)
	}
	if got.TaskProgress.TimeWeighted != 0 {
		t.Errorf("TimeWeighted = %v, want 0", got.TaskProgress.TimeWeighted)
	}
	if math.IsNaN(got.TaskProgress.TimeWeighted) || math.IsInf(got.TaskProgress.TimeWeighted, 0) {
		t.Error("TimeWeighted must be finite")
	}
}

func TestDaySummaryUncategorized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedTask(t, "2025-09-11", 40, false, nil)
	f.seedTask(t, "2025-09-11", 20, false, f.catWork)
	f.seedTask(t, "2025-09-11", 10, false, nil)

	got, err := f.svc.DaySummary(ctx, f.user, "2025-09-11")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.BreakdownByCategory) != 2 {
		t.Fatalf("breakdown entries = %d, want 2", len(got.BreakdownByCategory))
	}
	// Insertion order of first appearance, not sorted.
	first := got.BreakdownByCategory[0]
	if first.CategoryID != "uncategorized" || first.Name != "Uncategorized" || first.Minutes != 50 {
		t.Errorf("first entry = %+v, want uncategorized with 50 minutes", first)
	}
}

// Week of Monday 2025-09-08. Minutes per day [70,70,70,0,70,70,70]
// must give the longest run (3), not the total count of active days.
func seedStreakWeek(t *testing.T, f *fixture) {
	t.Helper()
	dates := []string{"2025-09-08", "2025-09-09", "2025-09-10", "2025-09-11", "2025-09-12", "2025-09-13", "2025-09-14"}
	minutes := []int{70, 70, 70, 0, 70, 70, 70}
	for i, d := range dates {
		if minutes[i] > 0 {
			f.seedTask(t, d, minutes[i], false, f.catWork)
		}
	}
}

func TestWeeklyTrends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedStreakWeek(t, f)

	// Any date inside the week normalizes to its Monday.
	got, err := f.svc.WeeklyTrends(ctx, f.user, "2025-09-11")
	if err != nil {
		t.Fatalf("WeeklyTrends: %v", err)
	}

	if got.Streak != 3 {
		t.Errorf("Streak = %d, want 3", got.Streak)
	}
	if len(got.Daily) != 7 {
		t.Fatalf("daily entries = %d, want 7", len(got.Daily))
	}
	if got.Daily[0].Date != "2025-09-08" || got.Daily[6].Date != "2025-09-14" {
		t.Errorf("week spans %s..%s, want 2025-09-08..2025-09-14", got.Daily[0].Date, got.Daily[6].Date)
	}
	if got.Daily[3].Minutes != 0 || got.Daily[0].Minutes != 70 {
		t.Errorf("daily minutes = %+v", got.Daily)
	}

	// 420 total minutes over 6 active days = 70 min/day = 7/6 hours.
	wantFocus := 420.0 / 6 / 60
	if math.Abs(got.FocusRatio-wantFocus) > 1e-9 {
		t.Errorf("FocusRatio = %v, want %v", got.FocusRatio, wantFocus)
	}

	// Category averages always divide by 7.
	if len(got.ByCategory) != 1 {
		t.Fatalf("byCategory entries = %d, want 1", len(got.ByCategory))
	}
	if math.Abs(got.ByCategory[0].Minutes-420.0/7) > 1e-9 {
		t.Errorf("category average = %v, want %v", got.ByCategory[0].Minutes, 420.0/7)
	}
}

func TestWeeklyTrendsEmptyWeek(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.WeeklyTrends(context.Background(), f.user, "2025-09-08")
	if err != nil {
		t.Fatal(err)
	}
	if got.FocusRatio != 0 || got.Streak != 0 {
		t.Errorf("empty week: focusRatio=%v streak=%d, want zeros", got.FocusRatio, got.Streak)
	}
	if len(got.ByCategory) != 0 {
		t.Errorf("byCategory = %+v, want empty", got.ByCategory)
	}
}

func TestUpdateWeeklyAnalyticsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedStreakWeek(t, f)

	target := time.Date(2025, 9, 12, 12, 0, 0, 0, time.UTC)

	first, err := f.svc.UpdateWeeklyAnalytics(ctx, f.user, target)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	second, err := f.svc.UpdateWeeklyAnalytics(ctx, f.user, target)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second update created a new record (%d != %d)", second.ID, first.ID)
	}
	if len(second.Daily) != 1 {
		t.Fatalf("daily entries = %d, want 1 (no duplicates)", len(second.Daily))
	}
	if second.TotalMinutes != first.TotalMinutes || second.Streak != first.Streak {
		t.Errorf("second update changed totals: %+v vs %+v", second, first)
	}

	day := second.Daily[0]
	if day.Date != "2025-09-12" || day.SpentMin != 70 || day.TaskMinutes != 70 || day.EventMinutes != 0 {
		t.Errorf("daily entry = %+v", day)
	}
	if second.WeekStart != "2025-09-08" {
		t.Errorf("WeekStart = %s, want 2025-09-08", second.WeekStart)
	}
	if second.TotalMinutes != 420 {
		t.Errorf("TotalMinutes = %d, want 420", second.TotalMinutes)
	}
	if second.Streak != 3 {
		t.Errorf("Streak = %d, want 3", second.Streak)
	}
}

func TestUpdateWeeklyAnalyticsCarriesEventSplit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedTask(t, "2025-09-11", 90, false, f.catWork)
	evStart := time.Date(2025, 9, 11, 1, 0, 0, 0, time.UTC)
	f.seedEvent(t, evStart, evStart.Add(30*time.Minute))

	got, err := f.svc.UpdateWeeklyAnalytics(ctx, f.user, time.Date(2025, 9, 11, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Daily) != 1 {
		t.Fatalf("daily entries = %d, want 1", len(got.Daily))
	}
	day := got.Daily[0]
	if day.SpentMin != 120 || day.TaskMinutes != 90 || day.EventMinutes != 30 || day.ProductiveMinutes != 120 {
		t.Errorf("daily entry = %+v, want 120/90/30/120", day)
	}
}

// byCategory round-trip: trends averages × 7 equal the stored week
// totals for unchanged underlying data.
func TestWeeklyAnalyticsCategoryRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedStreakWeek(t, f)

	trends, err := f.svc.WeeklyTrends(ctx, f.user, "2025-09-08")
	if err != nil {
		t.Fatal(err)
	}
	stored, err := f.svc.UpdateWeeklyAnalytics(ctx, f.user, time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	if len(stored.ByCategory) != len(trends.ByCategory) {
		t.Fatalf("category counts differ: %d vs %d", len(stored.ByCategory), len(trends.ByCategory))
	}
	for i := range stored.ByCategory {
		want := trends.ByCategory[i].Minutes * 7
		if math.Abs(stored.ByCategory[i].Minutes-want) > 1e-9 {
			t.Errorf("category %s: stored %v, want %v", stored.ByCategory[i].Name, stored.ByCategory[i].Minutes, want)
		}
	}
	if math.Abs(stored.FocusRatio.ActiveMin-trends.FocusRatio*60) > 1e-9 {
		t.Errorf("ActiveMin = %v, want %v", stored.FocusRatio.ActiveMin, trends.FocusRatio*60)
	}
	if stored.FocusRatio.RestMin != 0 {
		t.Errorf("RestMin = %v, want 0", stored.FocusRatio.RestMin)
	}
}

func TestWeeklyReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := time.Date(2025, 9, 11, 0, 0, 0, 0, time.UTC)

	// Read path never creates: absent aggregate yields zeros.
	report, err := f.svc.WeeklyReport(ctx, f.user, target)
	if err != nil {
		t.Fatal(err)
	}
	if report.WeekStart != "2025-09-08" || report.TotalMinutes != 0 {
		t.Errorf("empty report = %+v", report)
	}
	if report.TotalRestMinutes != 7*24*60 {
		t.Errorf("TotalRestMinutes = %d, want %d", report.TotalRestMinutes, 7*24*60)
	}
	var count int64
	f.db.Model(&model.WeeklyAnalytics{}).Count(&count)
	if count != 0 {
		t.Errorf("read path wrote %d aggregates", count)
	}

	seedStreakWeek(t, f)
	if _, err := f.svc.UpdateWeeklyAnalytics(ctx, f.user, target); err != nil {
		t.Fatal(err)
	}

	report, err = f.svc.WeeklyReport(ctx, f.user, target)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalMinutes != 420 {
		t.Errorf("TotalMinutes = %d, want 420", report.TotalMinutes)
	}
	wantAvg := 420.0 / 60 / 7
	if math.Abs(report.AverageProductiveHours-wantAvg) > 1e-9 {
		t.Errorf("AverageProductiveHours = %v, want %v", report.AverageProductiveHours, wantAvg)
	}
	if report.TotalRestMinutes != 7*24*60-420 {
		t.Errorf("TotalRestMinutes = %d, want %d", report.TotalRestMinutes, 7*24*60-420)
	}
}
