package server

import (
	"net/http"
	"time"

	"time-planner/internal/timeutil"
)

func (s *Server) handleDaySummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		respondError(w, http.StatusBadRequest, "Invalid date parameter")
		return
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date parameter")
		return
	}

	summary, err := s.aggregation.DaySummary(r.Context(), userFrom(r.Context()), date)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleWeeklyTrends(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	if start == "" {
		respondError(w, http.StatusBadRequest, "Invalid start parameter")
		return
	}
	if _, err := timeutil.ParseDate(start); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid start date")
		return
	}

	trends, err := s.aggregation.WeeklyTrends(r.Context(), userFrom(r.Context()), start)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trends)
}

// targetDate resolves the optional ?date= query parameter, defaulting
// to now.
func targetDate(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now(), true
	}
	t, err := timeutil.ParseDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *Server) handleUpdateWeeklyAnalytics(w http.ResponseWriter, r *http.Request) {
	target, ok := targetDate(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid date parameter")
		return
	}

	analytics, err := s.aggregation.UpdateWeeklyAnalytics(r.Context(), userFrom(r.Context()), target)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Weekly analytics updated successfully",
		"analytics": map[string]interface{}{
			"totalMinutes": analytics.TotalMinutes,
			"byCategory":   analytics.ByCategory,
			"focusRatio":   analytics.FocusRatio,
			"streak":       analytics.Streak,
		},
	})
}

func (s *Server) handleWeeklyAnalytics(w http.ResponseWriter, r *http.Request) {
	target, ok := targetDate(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid date parameter")
		return
	}

	report, err := s.aggregation.WeeklyReport(r.Context(), userFrom(r.Context()), target)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
