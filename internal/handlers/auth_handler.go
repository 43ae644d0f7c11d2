package handlers

import (
	"net/http"
	"strings"

	"realvsai/internal/repository"
	"realvsai/internal/security"
	"realvsai/internal/validation"
)

// AuthHandler handles account registration and login
type AuthHandler struct {
	users  *repository.UserRepository
	tokens *security.TokenManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *repository.UserRepository, tokens *security.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Register creates an account and returns an identity token
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if err := validation.ValidateEmail(req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := validation.ValidateDisplayName(req.DisplayName); err != nil {
		writeServiceError(w, err)
		return
	}

	existing, err := h.users.GetUserByEmail(req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if existing != nil {
		writeFailure(w, http.StatusConflict, "an account with this email already exists")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	user, err := h.users.CreateUser(req.Email, hash, req.DisplayName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.DisplayName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"token":   token,
	})
}

// Login verifies credentials and returns an identity token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.GetUserByEmail(req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if user == nil || !security.CheckPassword(req.Password, user.PasswordHash) {
		writeFailure(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.DisplayName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
	})
}
