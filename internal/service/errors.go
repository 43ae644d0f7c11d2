package service

import "errors"

var (
	// NotFound
	ErrSessionNotFound    = errors.New("session not found")
	ErrPlayerNotInSession = errors.New("player not in session")

	// InvalidState
	ErrGameCompleted        = errors.New("game already completed")
	ErrGameNotCompleted     = errors.New("game not completed yet")
	ErrNoPendingTurn        = errors.New("no image pair pending for this turn")
	ErrSessionFull          = errors.New("session already has four players")
	ErrSessionNotInProgress = errors.New("session is not in progress")
	ErrTurnNotComplete      = errors.New("not all players have answered this turn")
	ErrChestAlreadyTaken    = errors.New("chest already taken by another player")
	ErrPlayerAlreadyChose   = errors.New("player already selected a chest")
	ErrChestNotEligible     = errors.New("player has not earned a chest pick")
	ErrFinishWaitActive     = errors.New("waiting for other players to finish")

	// ContentExhausted
	ErrNoImagesAvailable = errors.New("no unused images available")

	// ValidationError
	ErrInvalidModeOrDifficulty = errors.New("invalid mode or difficulty")
	ErrInvalidSelection        = errors.New("selection must be \"real\" or \"ai\"")
	ErrInvalidChestIndex       = errors.New("chest index out of range")

	// Mode gating
	ErrBonusUnavailableInMode = errors.New("bonus game unavailable in this mode")
)
