package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"time-planner/internal/service"
)

type taskCreateRequest struct {
	Title      string `json:"title"`
	CategoryID uint   `json:"categoryId"`
	Date       string `json:"date"`
	StartHHMM  string `json:"startHHMM"`
	EndHHMM    string `json:"endHHMM"`
	Notes      string `json:"notes"`
	IsEvent    bool   `json:"isEvent"`
	IsReminder bool   `json:"isReminder"`
}

type taskUpdateRequest struct {
	Title      *string    `json:"title"`
	CategoryID *uint      `json:"categoryId"`
	Start      *time.Time `json:"start"`
	End        *time.Time `json:"end"`
	Done       *bool      `json:"done"`
	Notes      *string    `json:"notes"`
	Carryover  *bool      `json:"carryover"`
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		respondError(w, http.StatusBadRequest, "Invalid date parameter. Expected format: YYYY-MM-DD")
		return
	}

	var done *bool
	if raw := r.URL.Query().Get("done"); raw != "" {
		v := raw == "true"
		done = &v
	}

	view, err := s.tasks.ListDay(r.Context(), userFrom(r.Context()), date, done)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := s.tasks.CreateTask(r.Context(), userFrom(r.Context()), service.TaskInput{
		Title:      req.Title,
		CategoryID: req.CategoryID,
		Date:       req.Date,
		StartHHMM:  req.StartHHMM,
		EndHHMM:    req.EndHHMM,
		Notes:      req.Notes,
		IsEvent:    req.IsEvent,
		IsReminder: req.IsReminder,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}

	var req taskUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := s.tasks.UpdateTask(r.Context(), userFrom(r.Context()), id, service.TaskUpdate{
		Title:      req.Title,
		CategoryID: req.CategoryID,
		Start:      req.Start,
		End:        req.End,
		Done:       req.Done,
		Notes:      req.Notes,
		Carryover:  req.Carryover,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}
	if err := s.tasks.DeleteTask(r.Context(), userFrom(r.Context()), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTodayTasks(w http.ResponseWriter, r *http.Request) {
	spentHours, err := s.tasks.TodaySpentHours(r.Context(), userFrom(r.Context()), time.Now())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"spentHours": spentHours})
}
