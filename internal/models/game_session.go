package models

import (
	"fmt"
	"time"
)

// GameMode identifies which game loop a session belongs to
type GameMode string

const (
	ModeSingle      GameMode = "single"
	ModeEndless     GameMode = "endless"
	ModeDaily       GameMode = "daily_challenge"
	ModeMultiplayer GameMode = "multiplayer"
)

// Difficulty selects the image pool and the turn/life table
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyEndless Difficulty = "endless"
)

// GameSettings holds the turn and life limits derived from a difficulty
type GameSettings struct {
	TotalTurns int // 0 means unlimited
	Lives      int
}

// difficultySettings is the canonical turn/life table
var difficultySettings = map[Difficulty]GameSettings{
	DifficultyEasy:    {TotalTurns: 20, Lives: 5},
	DifficultyMedium:  {TotalTurns: 50, Lives: 3},
	DifficultyHard:    {TotalTurns: 100, Lives: 1},
	DifficultyEndless: {TotalTurns: 0, Lives: 1},
}

// SettingsFor returns the turn/life limits for a mode/difficulty combination,
// or ok=false when the combination is not recognized.
func SettingsFor(mode GameMode, difficulty Difficulty) (GameSettings, bool) {
	switch mode {
	case ModeEndless:
		// Endless has no fixed tier; it reuses the endless slot of the table
		return difficultySettings[DifficultyEndless], true
	case ModeSingle, ModeDaily:
		if difficulty == DifficultyEndless {
			return GameSettings{}, false
		}
		s, ok := difficultySettings[difficulty]
		return s, ok
	default:
		return GameSettings{}, false
	}
}

// MaxLivesFor returns the life cap for a difficulty (used by the bonus game)
func MaxLivesFor(difficulty Difficulty) int {
	if s, ok := difficultySettings[difficulty]; ok {
		return s.Lives
	}
	return 1
}

// GameSession is one single-player or endless play-through
type GameSession struct {
	ID            string
	Mode          GameMode
	Difficulty    Difficulty
	CurrentTurn   int
	TotalTurns    int // 0 = unlimited
	Score         int
	Lives         int
	StartingLives int
	CurrentStreak int

	// Image pair for the current, unanswered turn; 0 when no turn is pending
	CurrentRealImage int64
	CurrentAIImage   int64
	LeftIsReal       bool

	// Images already presented this session, append-only
	ShownImages []int64

	// True when the current pair was already viewed once (refresh), which
	// suppresses the time bonus
	TimePenalty bool

	// Idempotency marker: last processed pair and selection. The real image
	// of that pair is kept so a retried wrong answer can replay its
	// description.
	LastPairKey   string
	LastSelection string
	LastRealImage int64

	Completed   bool
	OwnerUserID *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPendingPair reports whether an unanswered image pair is assigned
func (s *GameSession) HasPendingPair() bool {
	return s.CurrentRealImage != 0 && s.CurrentAIImage != 0
}

// PairKey returns the identity of the currently assigned pair
func (s *GameSession) PairKey() string {
	return PairKey(s.CurrentRealImage, s.CurrentAIImage)
}

// ClearCurrentPair drops the served pair so the next turn is forced to
// select a fresh one
func (s *GameSession) ClearCurrentPair() {
	s.CurrentRealImage = 0
	s.CurrentAIImage = 0
	s.LeftIsReal = false
	s.TimePenalty = false
}

// IsFinalTurn reports whether the current turn is the last one
func (s *GameSession) IsFinalTurn() bool {
	return s.TotalTurns > 0 && s.CurrentTurn >= s.TotalTurns
}

// IsFlawless reports whether the session kept every starting life
func (s *GameSession) IsFlawless() bool {
	return s.Completed && s.Lives == s.StartingLives
}

// HasShown reports whether an image was already presented this session
func (s *GameSession) HasShown(imageID int64) bool {
	for _, id := range s.ShownImages {
		if id == imageID {
			return true
		}
	}
	return false
}

// PairKey builds the identity string of a real/AI image pair
func PairKey(realImage, aiImage int64) string {
	return fmt.Sprintf("%d:%d", realImage, aiImage)
}
