package models

import "time"

// MultiplayerStatus tracks the lifecycle of a multiplayer session
type MultiplayerStatus string

const (
	StatusWaiting    MultiplayerStatus = "waiting"
	StatusInProgress MultiplayerStatus = "in_progress"
	StatusCompleted  MultiplayerStatus = "completed"
)

// MaxPlayers is the number of player slots in a multiplayer session
const MaxPlayers = 4

// ChestCount is the number of chests in the bonus chest game
const ChestCount = 4

// ChestValues are the point values shuffled across the chests
var ChestValues = [ChestCount]int{10, 20, 50, 100}

// PlayerSlot is one of the four player positions in a multiplayer session
type PlayerSlot struct {
	UserID        *int64     `json:"user_id,omitempty"`
	Name          string     `json:"name"`
	Score         int        `json:"score"`
	Streak        int        `json:"streak"`
	Answered      bool       `json:"answered"` // answered the current turn
	BonusEligible bool       `json:"bonus_eligible"`
	ChestIndex    int        `json:"chest_index"` // -1 until a chest is claimed
	Finished      bool       `json:"finished"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	IsBot         bool       `json:"is_bot"`
}

// Occupied reports whether the slot holds a player
func (p *PlayerSlot) Occupied() bool {
	return p.Name != ""
}

// Chest is one claimable chest in the bonus chest game
type Chest struct {
	Value     int `json:"value"`
	ClaimedBy int `json:"claimed_by"` // player slot index, -1 while unclaimed
}

// MultiplayerSession is one up-to-four-player play-through
type MultiplayerSession struct {
	ID          string
	Status      MultiplayerStatus
	Difficulty  Difficulty
	CurrentTurn int
	TotalTurns  int

	CurrentRealImage int64
	CurrentAIImage   int64
	LeftIsReal       bool
	ShownImages      []int64

	Players [MaxPlayers]PlayerSlot
	Chests  [ChestCount]Chest

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayerCount returns the number of occupied slots
func (s *MultiplayerSession) PlayerCount() int {
	count := 0
	for i := range s.Players {
		if s.Players[i].Occupied() {
			count++
		}
	}
	return count
}

// FindPlayer resolves a slot index by user id or display name, -1 if absent
func (s *MultiplayerSession) FindPlayer(userID *int64, name string) int {
	for i := range s.Players {
		p := &s.Players[i]
		if !p.Occupied() {
			continue
		}
		if userID != nil && p.UserID != nil && *p.UserID == *userID {
			return i
		}
		if name != "" && p.Name == name {
			return i
		}
	}
	return -1
}

// FreeSlot returns the first unoccupied slot index, -1 when full
func (s *MultiplayerSession) FreeSlot() int {
	for i := range s.Players {
		if !s.Players[i].Occupied() {
			return i
		}
	}
	return -1
}

// AllAnswered reports whether every occupied slot answered the current turn.
// Bots always count as having answered.
func (s *MultiplayerSession) AllAnswered() bool {
	for i := range s.Players {
		p := &s.Players[i]
		if p.Occupied() && !p.IsBot && !p.Answered {
			return false
		}
	}
	return true
}

// AllFinished reports whether every occupied human slot marked itself finished
func (s *MultiplayerSession) AllFinished() bool {
	for i := range s.Players {
		p := &s.Players[i]
		if p.Occupied() && !p.IsBot && !p.Finished {
			return false
		}
	}
	return true
}

// Winner returns the slot with the strictly highest score. When two or more
// slots share the top score the result is a tie and slot is -1.
func (s *MultiplayerSession) Winner() (slot int, tie bool) {
	slot = -1
	best := -1
	tie = false
	for i := range s.Players {
		p := &s.Players[i]
		if !p.Occupied() {
			continue
		}
		switch {
		case p.Score > best:
			best = p.Score
			slot = i
			tie = false
		case p.Score == best:
			tie = true
		}
	}
	if tie {
		slot = -1
	}
	return slot, tie
}
