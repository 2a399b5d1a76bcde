package server

import (
	"context"
	"net/http"
	"strings"

	"time-planner/internal/model"
)

type contextKey int

const userKey contextKey = iota

// requireAuth resolves the bearer token to a full user record so
// downstream handlers see the caller's preferences (daily budget).
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "Access denied. No token provided or invalid format.")
			return
		}

		claims, err := s.auth.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token.")
			return
		}

		user, err := s.users.FindByID(r.Context(), claims.UserID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token.")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func userFrom(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}
