package server

import (
	"net/http"
	"time"

	"time-planner/internal/service"
)

type eventCreateRequest struct {
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"allDay"`
	Location string    `json:"location"`
	Notes    string    `json:"notes"`
}

type eventUpdateRequest struct {
	Title    *string    `json:"title"`
	Start    *time.Time `json:"start"`
	End      *time.Time `json:"end"`
	AllDay   *bool      `json:"allDay"`
	Location *string    `json:"location"`
	Notes    *string    `json:"notes"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date range")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date range")
		return
	}

	events, err := s.events.ListRange(r.Context(), userFrom(r.Context()), from, to)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := s.events.CreateEvent(r.Context(), userFrom(r.Context()), service.EventInput{
		Title:    req.Title,
		Start:    req.Start,
		End:      req.End,
		AllDay:   req.AllDay,
		Location: req.Location,
		Notes:    req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}

	var req eventUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := s.events.UpdateEvent(r.Context(), userFrom(r.Context()), id, service.EventUpdate{
		Title:    req.Title,
		Start:    req.Start,
		End:      req.End,
		AllDay:   req.AllDay,
		Location: req.Location,
		Notes:    req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}
	if err := s.events.DeleteEvent(r.Context(), userFrom(r.Context()), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTodayEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.TodayEvents(r.Context(), userFrom(r.Context()), time.Now())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}
