package models

import "time"

// LeaderboardScore is one accepted score submission
type LeaderboardScore struct {
	ID          int64
	UserID      *int64
	DisplayName string
	Score       int
	Mode        GameMode
	Difficulty  Difficulty
	CreatedAt   time.Time
}

// LeaderboardEntry is a ranked row served to clients
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
}
