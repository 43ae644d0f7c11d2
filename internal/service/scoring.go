package service

import "realvsai/internal/models"

// BaseScore is awarded for every correct answer
const BaseScore = 10

// maxLifeBonusPoints is awarded by the bonus game when lives are already capped
const maxLifeBonusPoints = 50

// TimeBonus computes the response-time bonus on a decay curve: full bonus
// under one second, then one point lost per 1.5 s, reaching zero at 30 s.
func TimeBonus(responseTimeMs int) int {
	switch {
	case responseTimeMs < 1000:
		return 20
	case responseTimeMs >= 30000:
		return 0
	default:
		bonus := 20 - (responseTimeMs-1000)/1500
		if bonus < 0 {
			bonus = 0
		}
		return bonus
	}
}

// TimeBonusEligible reports whether a correct answer earns a time bonus.
// The refresh penalty always suppresses it; otherwise only hard difficulty
// and the endless/multiplayer modes qualify.
func TimeBonusEligible(mode models.GameMode, difficulty models.Difficulty, timePenalty bool) bool {
	if timePenalty {
		return false
	}
	return difficulty == models.DifficultyHard ||
		mode == models.ModeEndless ||
		mode == models.ModeMultiplayer
}

// StreakBonus computes the single-player streak bonus for the streak value
// just reached. It doubles at every 5-streak milestone: 5 -> 10, 10 -> 20,
// 15 -> 40. Multiplayer tracks streaks but never scores them; endless has no
// streak bonus either.
func StreakBonus(mode models.GameMode, streak int) int {
	if mode != models.ModeSingle && mode != models.ModeDaily {
		return 0
	}
	if streak <= 0 || streak%5 != 0 {
		return 0
	}
	return 10 << (streak/5 - 1)
}

// HalveScore halves a score as a penalty, clamped at zero
func HalveScore(score int) int {
	half := score / 2
	if half < 0 {
		half = 0
	}
	return half
}
