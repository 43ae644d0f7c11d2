package validation

import (
	"fmt"
	"regexp"
	"strings"

	"realvsai/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateMode checks that a game mode is one of the known modes
func ValidateMode(mode string) (models.GameMode, error) {
	switch models.GameMode(mode) {
	case models.ModeSingle, models.ModeEndless, models.ModeDaily, models.ModeMultiplayer:
		return models.GameMode(mode), nil
	}
	return "", ValidationError{Field: "mode", Message: "unknown game mode"}
}

// ValidateDifficulty checks that a difficulty is one of the known tiers.
// An empty difficulty defaults to easy.
func ValidateDifficulty(difficulty string) (models.Difficulty, error) {
	if difficulty == "" {
		return models.DifficultyEasy, nil
	}
	switch models.Difficulty(difficulty) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard, models.DifficultyEndless:
		return models.Difficulty(difficulty), nil
	}
	return "", ValidationError{Field: "difficulty", Message: "unknown difficulty"}
}

// ValidateSelection checks an answer selection
func ValidateSelection(selected string) error {
	if selected != "real" && selected != "ai" {
		return ValidationError{Field: "selected", Message: `selection must be "real" or "ai"`}
	}
	return nil
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateDisplayName checks a player display name
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "display_name", Message: "display name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "display_name", Message: "display name must be at least 2 characters"}
	}
	if len(name) > 32 {
		return ValidationError{Field: "display_name", Message: "display name must be at most 32 characters"}
	}
	return nil
}
