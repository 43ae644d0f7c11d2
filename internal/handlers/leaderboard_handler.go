package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"realvsai/internal/service"
	"realvsai/internal/validation"
)

// LeaderboardHandler handles score submission and leaderboard reads
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// SubmitScore records a verified score
func (h *LeaderboardHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Score          int    `json:"score"`
		GameMode       string `json:"game_mode"`
		Difficulty     string `json:"difficulty"`
		DisplayName    string `json:"display_name"`
		ScoreHash      string `json:"score_hash"`
		ScoreTimestamp int64  `json:"score_timestamp"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	mode, err := validation.ValidateMode(req.GameMode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	difficulty, err := validation.ValidateDifficulty(req.Difficulty)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	userID := optionalUserID(r.Context())
	displayName := strings.TrimSpace(req.DisplayName)
	if identity := IdentityFromContext(r.Context()); identity != nil {
		displayName = identity.DisplayName
	}
	if err := validation.ValidateDisplayName(displayName); err != nil {
		writeServiceError(w, err)
		return
	}

	entry, err := h.leaderboard.SubmitScore(r.Context(), userID, displayName, req.Score, mode, difficulty, req.ScoreHash, req.ScoreTimestamp)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"score_id": entry.ID,
	})
}

// Top serves the ranked leaderboard view
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	mode, err := validation.ValidateMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	difficulty, err := validation.ValidateDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = parsed
	}

	entries, err := h.leaderboard.Top(r.Context(), mode, difficulty, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"entries": entries,
	})
}
