package models

import "time"

// Achievement codes awarded by the milestone sink
const (
	AchievementFirstGame      = "first_game"
	AchievementFlawless       = "flawless_run"
	AchievementStreakFive     = "streak_5"
	AchievementStreakTen      = "streak_10"
	AchievementStreakTwenty   = "streak_20"
	AchievementMultiplayerWin = "multiplayer_win"
)

// Achievement is a milestone a user has earned
type Achievement struct {
	ID       int64
	UserID   int64
	Code     string
	EarnedAt time.Time
}
