package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"time-planner/internal/aggregation"
	"time-planner/internal/auth"
	"time-planner/internal/model"
	"time-planner/internal/repository"
	"time-planner/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
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

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	eventRepo := repository.NewEventRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	srv := New(
		auth.NewManager("test-secret"),
		userRepo,
		service.NewTaskService(taskRepo, eventRepo, categoryRepo),
		service.NewEventService(eventRepo),
		service.NewCategoryService(categoryRepo),
		service.NewReminderService(reminderRepo, categoryRepo),
		aggregation.New(taskRepo, eventRepo, analyticsRepo, 720),
	)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// doJSON issues a request with an optional JSON body and bearer token
// and decodes the JSON response into out (when out is non-nil).
func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func registerTestUser(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "plannertest",
		"email":    "planner@example.com",
		"password": "Sup3rSecret!",
		"name":     "Test Planner",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register: status = %d, want 201", status)
	}
	if resp.Token == "" {
		t.Fatal("register: no token in response")
	}
	return resp.Token
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	var resp struct {
		Message string               `json:"message"`
		Errors  []service.FieldError `json:"errors"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "ab",
		"email":    "nope",
		"password": "weak",
		"name":     "x",
	}, &resp)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if len(resp.Errors) != 4 {
		t.Errorf("got %d field errors, want 4: %+v", len(resp.Errors), resp.Errors)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)
	registerTestUser(t, ts)

	// Duplicate username is rejected.
	status := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "plannertest",
		"email":    "other@example.com",
		"password": "Sup3rSecret!",
		"name":     "Other Person",
	}, nil)
	if status != http.StatusConflict {
		t.Errorf("duplicate register: status = %d, want 409", status)
	}

	var login struct {
		Token string `json:"token"`
	}
	status = doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "plannertest",
		"password": "Sup3rSecret!",
	}, &login)
	if status != http.StatusOK || login.Token == "" {
		t.Errorf("login: status = %d, token = %q", status, login.Token)
	}

	status = doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "plannertest",
		"password": "WrongPass1!",
	}, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("bad password: status = %d, want 401", status)
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	status := doJSON(t, ts, http.MethodGet, "/api/tasks?date=2025-09-11", "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", status)
	}
	status = doJSON(t, ts, http.MethodGet, "/api/tasks?date=2025-09-11", "not.a.token", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", status)
	}
}

func TestTaskFlowAndDaySummary(t *testing.T) {
	ts := newTestServer(t)
	token := registerTestUser(t, ts)

	var category struct {
		ID uint `json:"id"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/categories", token, map[string]string{
		"name":  "Deep Work",
		"color": "#336699",
	}, &category)
	if status != http.StatusCreated || category.ID == 0 {
		t.Fatalf("create category: status = %d, id = %d", status, category.ID)
	}

	var task struct {
		ID          uint `json:"id"`
		DurationMin int  `json:"durationMin"`
	}
	status = doJSON(t, ts, http.MethodPost, "/api/tasks", token, map[string]interface{}{
		"title":      "Write report",
		"categoryId": category.ID,
		"date":       "2025-09-11",
		"startHHMM":  "09:00",
		"endHHMM":    "10:30",
	}, &task)
	if status != http.StatusCreated {
		t.Fatalf("create task: status = %d", status)
	}
	if task.DurationMin != 90 {
		t.Errorf("durationMin = %d, want 90", task.DurationMin)
	}

	var summary struct {
		BudgetMin           int `json:"budgetMin"`
		SpentMin            int `json:"spentMin"`
		RemainingMin        int `json:"remainingMin"`
		BreakdownByCategory []struct {
			Name    string  `json:"name"`
			Minutes float64 `json:"minutes"`
		} `json:"breakdownByCategory"`
	}
	status = doJSON(t, ts, http.MethodGet, "/api/aggregation/day/summary?date=2025-09-11", token, nil, &summary)
	if status != http.StatusOK {
		t.Fatalf("day summary: status = %d", status)
	}
	if summary.BudgetMin != 720 || summary.SpentMin != 90 || summary.RemainingMin != 630 {
		t.Errorf("summary = %+v", summary)
	}
	if len(summary.BreakdownByCategory) != 1 || summary.BreakdownByCategory[0].Name != "Deep Work" {
		t.Errorf("breakdown = %+v", summary.BreakdownByCategory)
	}

	status = doJSON(t, ts, http.MethodGet, "/api/aggregation/day/summary?date=bogus", token, nil, nil)
	if status != http.StatusBadRequest {
		t.Errorf("bogus date: status = %d, want 400", status)
	}

	status = doJSON(t, ts, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), token, nil, nil)
	if status != http.StatusNoContent {
		t.Errorf("delete task: status = %d, want 204", status)
	}
	status = doJSON(t, ts, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), token, nil, nil)
	if status != http.StatusNotFound {
		t.Errorf("delete missing task: status = %d, want 404", status)
	}
}

func TestWeeklyAnalyticsFlow(t *testing.T) {
	ts := newTestServer(t)
	token := registerTestUser(t, ts)

	var category struct {
		ID uint `json:"id"`
	}
	if status := doJSON(t, ts, http.MethodPost, "/api/categories", token, map[string]string{
		"name": "Work",
	}, &category); status != http.StatusCreated {
		t.Fatalf("create category: status = %d", status)
	}

	// Thursday of the week starting Monday 2025-09-08.
	if status := doJSON(t, ts, http.MethodPost, "/api/tasks", token, map[string]interface{}{
		"title":      "focus block",
		"categoryId": category.ID,
		"date":       "2025-09-11",
		"startHHMM":  "09:00",
		"endHHMM":    "10:10",
	}, nil); status != http.StatusCreated {
		t.Fatalf("create task: status = %d", status)
	}

	// Reading before any update returns the zero aggregate.
	var empty struct {
		WeekStart    string `json:"weekStart"`
		TotalMinutes int    `json:"totalMinutes"`
	}
	status := doJSON(t, ts, http.MethodGet, "/api/aggregation/analytics/weekly?date=2025-09-11", token, nil, &empty)
	if status != http.StatusOK || empty.TotalMinutes != 0 || empty.WeekStart != "2025-09-08" {
		t.Errorf("empty report: status = %d, report = %+v", status, empty)
	}

	var update struct {
		Message   string `json:"message"`
		Analytics struct {
			TotalMinutes int `json:"totalMinutes"`
			Streak       int `json:"streak"`
		} `json:"analytics"`
	}
	status = doJSON(t, ts, http.MethodPost, "/api/aggregation/analytics/weekly/update?date=2025-09-11", token, nil, &update)
	if status != http.StatusOK {
		t.Fatalf("update analytics: status = %d", status)
	}
	if update.Analytics.TotalMinutes != 70 || update.Analytics.Streak != 1 {
		t.Errorf("analytics = %+v", update.Analytics)
	}

	var report struct {
		WeekStart              string  `json:"weekStart"`
		TotalMinutes           int     `json:"totalMinutes"`
		AverageProductiveHours float64 `json:"averageProductiveHours"`
		TotalRestMinutes       int     `json:"totalRestMinutes"`
	}
	status = doJSON(t, ts, http.MethodGet, "/api/aggregation/analytics/weekly?date=2025-09-11", token, nil, &report)
	if status != http.StatusOK {
		t.Fatalf("read analytics: status = %d", status)
	}
	if report.WeekStart != "2025-09-08" || report.TotalMinutes != 70 {
		t.Errorf("report = %+v", report)
	}
	if report.TotalRestMinutes != 7*24*60-70 {
		t.Errorf("totalRestMinutes = %d", report.TotalRestMinutes)
	}

	var trends struct {
		Streak int `json:"streak"`
		Daily  []struct {
			Date    string `json:"date"`
			Minutes int    `json:"minutes"`
		} `json:"daily"`
	}
	status = doJSON(t, ts, http.MethodGet, "/api/aggregation/trends/weekly?start=2025-09-11", token, nil, &trends)
	if status != http.StatusOK {
		t.Fatalf("weekly trends: status = %d", status)
	}
	if len(trends.Daily) != 7 || trends.Daily[0].Date != "2025-09-08" {
		t.Errorf("daily = %+v", trends.Daily)
	}
	if trends.Streak != 1 {
		t.Errorf("streak = %d, want 1", trends.Streak)
	}
}

func TestReminderConvertEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := registerTestUser(t, ts)

	var reminder struct {
		ID uint `json:"id"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/reminders", token, map[string]string{
		"title": "Call dentist",
		"date":  "2025-09-11",
		"time":  "14:00",
	}, &reminder)
	if status != http.StatusCreated || reminder.ID == 0 {
		t.Fatalf("create reminder: status = %d, id = %d", status, reminder.ID)
	}

	var task struct {
		ID           uint   `json:"id"`
		DurationMin  int    `json:"durationMin"`
		IsReminder   bool   `json:"isReminder"`
		CategoryName string `json:"categoryName"`
	}
	status = doJSON(t, ts, http.MethodPost, fmt.Sprintf("/api/reminders/%d/convert", reminder.ID), token, nil, &task)
	if status != http.StatusCreated {
		t.Fatalf("convert: status = %d", status)
	}
	if task.DurationMin != 60 || !task.IsReminder || task.CategoryName != "Work" {
		t.Errorf("converted task = %+v", task)
	}

	var left []struct {
		ID uint `json:"id"`
	}
	status = doJSON(t, ts, http.MethodGet, "/api/reminders", token, nil, &left)
	if status != http.StatusOK || len(left) != 0 {
		t.Errorf("reminders after convert: status = %d, count = %d", status, len(left))
	}
}
