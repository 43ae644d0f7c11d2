package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"realvsai/internal/security"
	"realvsai/internal/service"
	"realvsai/internal/validation"
)

// writeJSON writes a response payload with the given status
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeFailure writes the failure envelope
func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// writeServiceError maps service sentinels onto the failure envelope. Unknown
// errors are logged and become a generic failure so SQL details never leak.
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr validation.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeFailure(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, service.ErrInvalidModeOrDifficulty),
		errors.Is(err, service.ErrInvalidSelection),
		errors.Is(err, service.ErrInvalidChestIndex):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrPlayerNotInSession):
		writeFailure(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoImagesAvailable):
		// Distinct discriminator so the client can show an out-of-content
		// ending instead of a game over
		writeJSON(w, http.StatusOK, map[string]any{
			"success":        false,
			"no_more_images": true,
			"message":        err.Error(),
		})
	case errors.Is(err, service.ErrGameCompleted),
		errors.Is(err, service.ErrGameNotCompleted),
		errors.Is(err, service.ErrNoPendingTurn),
		errors.Is(err, service.ErrSessionFull),
		errors.Is(err, service.ErrSessionNotInProgress),
		errors.Is(err, service.ErrTurnNotComplete),
		errors.Is(err, service.ErrChestAlreadyTaken),
		errors.Is(err, service.ErrPlayerAlreadyChose),
		errors.Is(err, service.ErrChestNotEligible),
		errors.Is(err, service.ErrFinishWaitActive),
		errors.Is(err, service.ErrBonusUnavailableInMode):
		writeFailure(w, http.StatusConflict, err.Error())
	case errors.Is(err, security.ErrScoreHashInvalid),
		errors.Is(err, security.ErrScoreHashExpired):
		writeFailure(w, http.StatusForbidden, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		writeFailure(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody decodes a JSON request body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
