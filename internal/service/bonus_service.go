package service

import (
	"fmt"

	"realvsai/internal/models"
)

// BonusOutcome reports the effect of a resolved bonus mini-game
type BonusOutcome struct {
	Correct       bool
	LifeAwarded   bool
	PointsAwarded int // alternate reward when lives are already at the cap
	Score         int
	Lives         int
}

// BonusService runs the optional mini-game between turns. It shares the
// session row with the main turn loop but never touches the turn counter.
type BonusService struct {
	sessions SessionStore
	images   *ImageService
	locks    *SessionLocks
}

// NewBonusService creates a new bonus service
func NewBonusService(sessions SessionStore, images *ImageService, locks *SessionLocks) *BonusService {
	return &BonusService{sessions: sessions, images: images, locks: locks}
}

// GetBonusImages selects a bonus challenge for the session and records its
// images in the shown-image history so the main loop never re-serves them.
// Endless and multiplayer sessions have no bonus game.
func (b *BonusService) GetBonusImages(sessionID string) (*models.BonusChallenge, error) {
	unlock := b.locks.Acquire(sessionID)
	defer unlock()

	session, err := b.sessions.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Mode == models.ModeEndless || session.Mode == models.ModeMultiplayer {
		return nil, ErrBonusUnavailableInMode
	}
	if session.Completed {
		return nil, ErrGameCompleted
	}

	challenge, err := b.images.SelectBonusSet(session.Difficulty, session.ShownImages)
	if err != nil {
		return nil, err
	}

	for i := range challenge.Images {
		session.ShownImages = append(session.ShownImages, challenge.Images[i].ID)
	}
	if challenge.Image != nil {
		session.ShownImages = append(session.ShownImages, challenge.Image.ID)
	}

	if err := b.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist bonus images: %w", err)
	}

	return challenge, nil
}

// ResolveBonusResult applies the mini-game outcome: a correct answer restores
// a life, or pays points when lives are already at the difficulty's cap; a
// wrong answer halves the score.
func (b *BonusService) ResolveBonusResult(sessionID string, correct bool) (*BonusOutcome, error) {
	unlock := b.locks.Acquire(sessionID)
	defer unlock()

	session, err := b.sessions.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Mode == models.ModeEndless || session.Mode == models.ModeMultiplayer {
		return nil, ErrBonusUnavailableInMode
	}
	if session.Completed {
		return nil, ErrGameCompleted
	}

	outcome := &BonusOutcome{Correct: correct}

	if correct {
		if session.Lives < models.MaxLivesFor(session.Difficulty) {
			session.Lives++
			outcome.LifeAwarded = true
		} else {
			session.Score += maxLifeBonusPoints
			outcome.PointsAwarded = maxLifeBonusPoints
		}
	} else {
		session.Score = HalveScore(session.Score)
	}

	if err := b.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist bonus result: %w", err)
	}

	outcome.Score = session.Score
	outcome.Lives = session.Lives
	return outcome, nil
}
