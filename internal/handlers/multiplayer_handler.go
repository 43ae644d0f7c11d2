package handlers

import (
	"net/http"
	"strings"
	"time"

	"realvsai/internal/models"
	"realvsai/internal/service"
	"realvsai/internal/validation"
)

// MultiplayerHandler handles multiplayer game HTTP requests
type MultiplayerHandler struct {
	multiplayer *service.MultiplayerService
}

// NewMultiplayerHandler creates a new multiplayer handler
func NewMultiplayerHandler(multiplayer *service.MultiplayerService) *MultiplayerHandler {
	return &MultiplayerHandler{multiplayer: multiplayer}
}

// playerIdentity resolves the calling player: logged-in users are identified
// by user id and display name, anonymous players by the name in the request
func playerIdentity(r *http.Request, bodyName string) (*int64, string) {
	if identity := IdentityFromContext(r.Context()); identity != nil {
		id := identity.UserID
		return &id, identity.DisplayName
	}
	return nil, strings.TrimSpace(bodyName)
}

type playerDTO struct {
	Name          string `json:"name"`
	Score         int    `json:"score"`
	Streak        int    `json:"streak"`
	Answered      bool   `json:"answered"`
	BonusEligible bool   `json:"bonus_eligible"`
	ChestIndex    int    `json:"chest_index"`
	Finished      bool   `json:"finished"`
	IsBot         bool   `json:"is_bot"`
}

func toPlayerDTOs(players [models.MaxPlayers]models.PlayerSlot) []playerDTO {
	out := make([]playerDTO, 0, models.MaxPlayers)
	for i := range players {
		p := &players[i]
		if !p.Occupied() {
			continue
		}
		out = append(out, playerDTO{
			Name:          p.Name,
			Score:         p.Score,
			Streak:        p.Streak,
			Answered:      p.Answered,
			BonusEligible: p.BonusEligible,
			ChestIndex:    p.ChestIndex,
			Finished:      p.Finished,
			IsBot:         p.IsBot,
		})
	}
	return out
}

// Create opens a new multiplayer session with the caller in the first slot
func (h *MultiplayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Difficulty string `json:"difficulty"`
		TotalTurns int    `json:"total_turns"`
		PlayerName string `json:"player_name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	difficulty, err := validation.ValidateDifficulty(req.Difficulty)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	userID, name := playerIdentity(r, req.PlayerName)
	if name == "" {
		writeFailure(w, http.StatusBadRequest, "player_name is required for anonymous play")
		return
	}

	session, err := h.multiplayer.Create(difficulty, req.TotalTurns, userID, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"session_id": session.ID,
		"status":     session.Status,
	})
}

// Join claims a player slot in a waiting session
func (h *MultiplayerHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		PlayerName string `json:"player_name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID, name := playerIdentity(r, req.PlayerName)
	if name == "" {
		writeFailure(w, http.StatusBadRequest, "player_name is required for anonymous play")
		return
	}

	session, slot, err := h.multiplayer.Join(req.SessionID, userID, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"player_slot": slot,
		"status":      session.Status,
		"players":     toPlayerDTOs(session.Players),
	})
}

// Answer records the calling player's answer for the shared pair
func (h *MultiplayerHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		Selected   string `json:"selected"`
		PlayerName string `json:"player_name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateSelection(req.Selected); err != nil {
		writeServiceError(w, err)
		return
	}

	userID, name := playerIdentity(r, req.PlayerName)
	result, err := h.multiplayer.SubmitAnswer(req.SessionID, userID, name, req.Selected)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"success":        true,
		"correct":        result.Correct,
		"player_slot":    result.PlayerSlot,
		"score":          result.Score,
		"current_streak": result.Streak,
	}
	if result.Duplicate {
		resp["duplicate"] = true
	}
	writeJSON(w, http.StatusOK, resp)
}

// NextTurn advances the shared session once everyone has answered
func (h *MultiplayerHandler) NextTurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.multiplayer.AdvanceTurn(req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeMultiplayerView(w, view)
}

// TurnImages serves the shared image pair for the current turn
func (h *MultiplayerHandler) TurnImages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.multiplayer.GetTurnImages(req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeMultiplayerView(w, view)
}

// BonusImages serves the chest-qualifier challenge for the calling player
func (h *MultiplayerHandler) BonusImages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		PlayerName string `json:"player_name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID, name := playerIdentity(r, req.PlayerName)
	challenge, err := h.multiplayer.GetBonusImages(req.SessionID, userID, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeBonusChallenge(w, challenge)
}

// BonusResult records the chest-qualifier outcome for the calling player
func (h *MultiplayerHandler) BonusResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		PlayerName string `json:"player_name"`
		Correct    bool   `json:"correct"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID, name := playerIdentity(r, req.PlayerName)
	if err := h.multiplayer.HandleBonusResult(req.SessionID, userID, name, req.Correct); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"chest_eligible": req.Correct,
	})
}

// Chest claims one chest for the calling player
func (h *MultiplayerHandler) Chest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		PlayerName string `json:"player_name"`
		ChestIndex int    `json:"chest_index"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID, name := playerIdentity(r, req.PlayerName)
	result, err := h.multiplayer.SelectChest(req.SessionID, userID, name, req.ChestIndex)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	chests := make([]map[string]any, 0, len(result.Chests))
	for i := range result.Chests {
		c := result.Chests[i]
		entry := map[string]any{"claimed": c.ClaimedBy >= 0}
		if c.ClaimedBy >= 0 {
			// Values are revealed to everyone once a chest is opened
			entry["value"] = c.Value
			entry["claimed_by"] = c.ClaimedBy
		}
		chests = append(chests, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"chest_index": result.ChestIndex,
		"value":       result.Value,
		"score":       result.Score,
		"chests":      chests,
	})
}

// Finish marks the calling player as done with the session
func (h *MultiplayerHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		PlayerName string `json:"player_name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID, name := playerIdentity(r, req.PlayerName)
	if err := h.multiplayer.MarkFinished(req.SessionID, userID, name); err != nil {
		writeServiceError(w, err)
		return
	}

	err := h.multiplayer.CanSubmitScore(req.SessionID, userID, name, time.Now())
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"can_submit_score": err == nil,
	})
}

// Result resolves the final standings of a completed session
func (h *MultiplayerHandler) Result(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.multiplayer.ResolveWinner(req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"success":   true,
		"tie":       result.Tie,
		"standings": toPlayerDTOs(result.Players),
	}
	if result.WinnerSlot >= 0 {
		resp["winner"] = result.Players[result.WinnerSlot].Name
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeMultiplayerView(w http.ResponseWriter, view *service.MultiplayerTurnView) {
	resp := map[string]any{
		"success":    true,
		"status":     view.Status,
		"turn":       view.Turn,
		"totalTurns": view.TotalTurns,
		"completed":  view.Completed,
		"players":    toPlayerDTOs(view.Players),
	}
	if view.Left != nil && view.Right != nil {
		resp["leftImage"] = toImageDTO(view.Left)
		resp["rightImage"] = toImageDTO(view.Right)
		resp["leftIsReal"] = view.LeftIsReal
	}
	writeJSON(w, http.StatusOK, resp)
}
