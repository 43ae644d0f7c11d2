package security

import "github.com/google/uuid"

// GenerateSessionID creates a new opaque session identifier
func GenerateSessionID() string {
	return uuid.New().String()
}
