package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"time-planner/internal/aggregation"
	"time-planner/internal/auth"
	"time-planner/internal/repository"
	"time-planner/internal/service"
)

// Server holds the HTTP surface over the planner services.
type Server struct {
	auth        *auth.Manager
	users       *repository.UserRepository
	tasks       *service.TaskService
	events      *service.EventService
	categories  *service.CategoryService
	reminders   *service.ReminderService
	aggregation *aggregation.Service
}

func New(
	authMgr *auth.Manager,
	users *repository.UserRepository,
	tasks *service.TaskService,
	events *service.EventService,
	categories *service.CategoryService,
	reminders *service.ReminderService,
	agg *aggregation.Service,
) *Server {
	return &Server{
		auth:        authMgr,
		users:       users,
		tasks:       tasks,
		events:      events,
		categories:  categories,
		reminders:   reminders,
		aggregation: agg,
	}
}

// Router builds the route table. Recoverer keeps handler panics from
// crashing the process; they surface as plain 500s.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.handleListTasks)
				r.Post("/", s.handleCreateTask)
				r.Get("/today", s.handleTodayTasks)
				r.Put("/{id}", s.handleUpdateTask)
				r.Delete("/{id}", s.handleDeleteTask)
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", s.handleListEvents)
				r.Post("/", s.handleCreateEvent)
				r.Get("/today", s.handleTodayEvents)
				r.Put("/{id}", s.handleUpdateEvent)
				r.Delete("/{id}", s.handleDeleteEvent)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handleListCategories)
				r.Post("/", s.handleCreateCategory)
				r.Put("/{id}", s.handleUpdateCategory)
				r.Delete("/{id}", s.handleDeleteCategory)
			})

			r.Route("/reminders", func(r chi.Router) {
				r.Get("/", s.handleListReminders)
				r.Post("/", s.handleCreateReminder)
				r.Put("/{id}", s.handleUpdateReminder)
				r.Delete("/{id}", s.handleDeleteReminder)
				r.Post("/{id}/convert", s.handleConvertReminder)
			})

			r.Route("/aggregation", func(r chi.Router) {
				r.Get("/day/summary", s.handleDaySummary)
				r.Get("/trends/weekly", s.handleWeeklyTrends)
				r.Post("/analytics/weekly/update", s.handleUpdateWeeklyAnalytics)
				r.Get("/analytics/weekly", s.handleWeeklyAnalytics)
			})
		})
	})

	return r
}
