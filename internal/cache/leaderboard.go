package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"realvsai/internal/models"
)

// Leaderboard keeps a ranked score view in a redis sorted set, one key per
// mode/difficulty. Members are display names; ZADD GT keeps only a player's
// best score.
type Leaderboard struct {
	client *redis.Client
}

// NewLeaderboard connects to redis and verifies the connection
func NewLeaderboard(ctx context.Context, addr, password string) (*Leaderboard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Leaderboard{client: client}, nil
}

func key(mode models.GameMode, difficulty models.Difficulty) string {
	return fmt.Sprintf("leaderboard:%s:%s", mode, difficulty)
}

// RecordScore records a score, keeping the member's highest value
func (l *Leaderboard) RecordScore(ctx context.Context, mode models.GameMode, difficulty models.Difficulty, displayName string, score int) error {
	err := l.client.ZAddGT(ctx, key(mode, difficulty), redis.Z{
		Score:  float64(score),
		Member: displayName,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}
	return nil
}

// Top returns the highest scores in descending order
func (l *Leaderboard) Top(ctx context.Context, mode models.GameMode, difficulty models.Difficulty, limit int) ([]models.LeaderboardEntry, error) {
	results, err := l.client.ZRevRangeWithScores(ctx, key(mode, difficulty), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(results))
	for i, z := range results {
		name, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:        i + 1,
			DisplayName: name,
			Score:       int(z.Score),
		})
	}
	return entries, nil
}

// Close releases the redis connection
func (l *Leaderboard) Close() error {
	return l.client.Close()
}
