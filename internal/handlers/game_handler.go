package handlers

import (
	"net/http"

	"realvsai/internal/models"
	"realvsai/internal/service"
	"realvsai/internal/validation"
)

// GameHandler handles single-player and endless game HTTP requests
type GameHandler struct {
	games *service.GameService
	bonus *service.BonusService
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *service.GameService, bonus *service.BonusService) *GameHandler {
	return &GameHandler{games: games, bonus: bonus}
}

type imageDTO struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
}

func toImageDTO(img *models.Image) *imageDTO {
	if img == nil {
		return nil
	}
	return &imageDTO{ID: img.ID, FileName: img.FileName}
}

// StartGame creates a new session
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode       string `json:"mode"`
		Difficulty string `json:"difficulty"`
		TotalTurns int    `json:"total_turns"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	mode, err := validation.ValidateMode(req.Mode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	difficulty, err := validation.ValidateDifficulty(req.Difficulty)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	session, err := h.games.StartGame(optionalUserID(r.Context()), mode, difficulty, req.TotalTurns)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"session_id":  session.ID,
		"total_turns": session.TotalTurns,
		"lives":       session.Lives,
	})
}

// Current returns the caller's most recent uncompleted session for a mode
func (h *GameHandler) Current(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		writeFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}

	mode, err := validation.ValidateMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	session, err := h.games.ActiveSession(identity.UserID, mode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"session_id": session.ID,
		"turn":       session.CurrentTurn,
		"score":      session.Score,
		"lives":      session.Lives,
	})
}

// NextTurn serves the image pair for the current turn
func (h *GameHandler) NextTurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.games.GetCurrentTurnImages(req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeTurnView(w, view)
}

// Answer processes one answer submission
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID      string `json:"session_id"`
		Selected       string `json:"selected"`
		ResponseTimeMs int    `json:"response_time_ms"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateSelection(req.Selected); err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := h.games.SubmitAnswer(req.SessionID, req.Selected, req.ResponseTimeMs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"success":            true,
		"correct":            result.Correct,
		"score":              result.Score,
		"lives":              result.Lives,
		"turn":               result.Turn,
		"totalTurns":         result.TotalTurns,
		"completed":          result.Completed,
		"current_streak":     result.Streak,
		"streak_bonus":       result.StreakBonus,
		"time_bonus":         result.TimeBonus,
		"score_hash":         result.ScoreHash,
		"score_timestamp":    result.ScoreTimestamp,
		"score_verification": result.ScoreVerification,
	}
	if result.Duplicate {
		resp["duplicate"] = true
	}
	if result.Terminal {
		resp["terminal"] = true
	}
	if result.ImageDescription != "" {
		resp["image_description"] = result.ImageDescription
	}
	writeJSON(w, http.StatusOK, resp)
}

// AdvanceTurn moves the session to the next turn
func (h *GameHandler) AdvanceTurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.games.AdvanceTurn(req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeTurnView(w, view)
}

// BonusImages serves a bonus mini-game challenge
func (h *GameHandler) BonusImages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	challenge, err := h.bonus.GetBonusImages(req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeBonusChallenge(w, challenge)
}

// BonusResult applies the bonus mini-game outcome
func (h *GameHandler) BonusResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Correct   bool   `json:"correct"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := h.bonus.ResolveBonusResult(req.SessionID, req.Correct)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"correct":        outcome.Correct,
		"extra_life":     outcome.LifeAwarded,
		"points_awarded": outcome.PointsAwarded,
		"score":          outcome.Score,
		"lives":          outcome.Lives,
	})
}

func writeTurnView(w http.ResponseWriter, view *service.TurnView) {
	resp := map[string]any{
		"success":        true,
		"turn":           view.Turn,
		"totalTurns":     view.TotalTurns,
		"score":          view.Score,
		"lives":          view.Lives,
		"current_streak": view.Streak,
		"completed":      view.Completed,
		"is_final_turn":  view.IsFinalTurn,
	}
	if view.Left != nil && view.Right != nil {
		resp["leftImage"] = toImageDTO(view.Left)
		resp["rightImage"] = toImageDTO(view.Right)
		resp["leftIsReal"] = view.LeftIsReal
		resp["real_image_description"] = view.RealDescription
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBonusChallenge(w http.ResponseWriter, challenge *models.BonusChallenge) {
	resp := map[string]any{
		"success":   true,
		"game_type": challenge.Type,
	}
	switch challenge.Type {
	case models.BonusFourImage:
		images := make([]*imageDTO, 0, len(challenge.Images))
		for i := range challenge.Images {
			images = append(images, toImageDTO(&challenge.Images[i]))
		}
		resp["images"] = images
		resp["real_position"] = challenge.RealPosition
	case models.BonusSingleImage:
		resp["image"] = toImageDTO(challenge.Image)
		resp["is_real"] = challenge.IsReal
	}
	writeJSON(w, http.StatusOK, resp)
}
