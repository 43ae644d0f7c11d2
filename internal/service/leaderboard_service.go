package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"realvsai/internal/models"
	"realvsai/internal/security"
)

// ScoreStore persists accepted leaderboard scores
type ScoreStore interface {
	InsertScore(score *models.LeaderboardScore) error
	TopScores(mode models.GameMode, difficulty models.Difficulty, limit int) ([]models.LeaderboardEntry, error)
	BestScoreForUser(userID int64, mode models.GameMode, difficulty models.Difficulty) (int, error)
}

// LeaderboardCache is a fast ranked view over accepted scores. A nil cache
// is allowed; reads then always hit the store.
type LeaderboardCache interface {
	RecordScore(ctx context.Context, mode models.GameMode, difficulty models.Difficulty, displayName string, score int) error
	Top(ctx context.Context, mode models.GameMode, difficulty models.Difficulty, limit int) ([]models.LeaderboardEntry, error)
}

// LeaderboardService verifies and records score submissions and serves
// ranked views
type LeaderboardService struct {
	store  ScoreStore
	cache  LeaderboardCache
	signer *security.ScoreSigner
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(store ScoreStore, cache LeaderboardCache, signer *security.ScoreSigner) *LeaderboardService {
	return &LeaderboardService{store: store, cache: cache, signer: signer}
}

// SubmitScore verifies the score hash minted at answer time and records the
// score. A bad hash is logged as suspicious and rejected; an expired one is
// rejected without the suspicion. Anonymous submissions verify with user id 0.
func (l *LeaderboardService) SubmitScore(ctx context.Context, userID *int64, displayName string, score int, mode models.GameMode, difficulty models.Difficulty, scoreHash string, scoreTimestamp int64) (*models.LeaderboardScore, error) {
	signerID := int64(0)
	if userID != nil {
		signerID = *userID
	}

	ts := time.Unix(scoreTimestamp, 0)
	if err := l.signer.Verify(scoreHash, score, signerID, ts, time.Now()); err != nil {
		if errors.Is(err, security.ErrScoreHashInvalid) {
			log.Printf("SUSPICIOUS: score hash mismatch for %q (user %d, score %d)", displayName, signerID, score)
		}
		return nil, err
	}

	entry := &models.LeaderboardScore{
		UserID:      userID,
		DisplayName: displayName,
		Score:       score,
		Mode:        mode,
		Difficulty:  difficulty,
	}
	if err := l.store.InsertScore(entry); err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	if l.cache != nil {
		if err := l.cache.RecordScore(ctx, mode, difficulty, displayName, score); err != nil {
			log.Printf("Failed to update leaderboard cache: %v", err)
		}
	}
	return entry, nil
}

// Top serves the ranked view, preferring the cache and falling back to the
// store when the cache is missing or empty
func (l *LeaderboardService) Top(ctx context.Context, mode models.GameMode, difficulty models.Difficulty, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if l.cache != nil {
		entries, err := l.cache.Top(ctx, mode, difficulty, limit)
		if err != nil {
			log.Printf("Leaderboard cache read failed, falling back to store: %v", err)
		} else if len(entries) > 0 {
			return entries, nil
		}
	}

	return l.store.TopScores(mode, difficulty, limit)
}

// BestForUser returns a user's best accepted score for a mode/difficulty
func (l *LeaderboardService) BestForUser(userID int64, mode models.GameMode, difficulty models.Difficulty) (int, error) {
	return l.store.BestScoreForUser(userID, mode, difficulty)
}
