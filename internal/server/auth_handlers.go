package server

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"time-planner/internal/model"
	"time-planner/internal/service"
)

type registerRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	passwordAllowed = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*]+$`)
)

func validateRegistration(req registerRequest) []service.FieldError {
	var errs []service.FieldError
	add := func(field, message string) {
		errs = append(errs, service.FieldError{Field: field, Message: message})
	}

	if len(req.Username) < 8 || len(req.Username) > 15 {
		add("username", "Username must be 8-15 characters")
	} else if !usernamePattern.MatchString(req.Username) {
		add("username", "Username can only contain letters and digits")
	}

	if len(req.Email) < 5 || !emailPattern.MatchString(req.Email) {
		add("email", "Invalid email format")
	}

	switch {
	case len(req.Password) < 8 || len(req.Password) > 20:
		add("password", "Password must be 8-20 characters")
	case !passwordAllowed.MatchString(req.Password):
		add("password", "Password can only contain letters, digits, and special characters (!@#$%^&*)")
	case !strings.ContainsAny(req.Password, "abcdefghijklmnopqrstuvwxyz"),
		!strings.ContainsAny(req.Password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
		!strings.ContainsAny(req.Password, "0123456789"),
		!strings.ContainsAny(req.Password, "!@#$%^&*"):
		add("password", "Password must contain lowercase, uppercase, digit and special characters")
	}

	if len(strings.TrimSpace(req.Name)) < 5 {
		add("name", "Name must be at least 5 characters")
	}

	return errs
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validateRegistration(req); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Validation failed", Errors: errs})
		return
	}

	exists, err := s.users.UsernameExists(r.Context(), req.Username)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if exists {
		respondError(w, http.StatusConflict, "Username already exists")
		return
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	user := model.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hash,
		Name:           strings.TrimSpace(req.Name),
		ProfilePicture: req.ProfilePicture,
		Timezone:       "Asia/Ho_Chi_Minh",
		DailyBudgetMin: 720,
		Theme:          "system",
	}
	if err := s.users.Create(r.Context(), &user); err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := s.auth.Sign(&user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := s.users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondServiceError(w, err)
		return
	}
	if !s.auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.auth.Sign(user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// handleLogout is a stateless acknowledgement; tokens expire on their
// own.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Logout successful",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
