package repository

import (
	"database/sql"
	"time"

	"realvsai/internal/database"
	"realvsai/internal/models"
)

// LeaderboardRepository handles leaderboard score database operations
type LeaderboardRepository struct {
	db database.DBTX
}

// NewLeaderboardRepository creates a new leaderboard repository
func NewLeaderboardRepository(db database.DBTX) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// InsertScore records an accepted score submission
func (r *LeaderboardRepository) InsertScore(s *models.LeaderboardScore) error {
	query := `
		INSERT INTO leaderboard_scores (user_id, display_name, score, mode, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	s.CreatedAt = time.Now().UTC()

	var userID sql.NullInt64
	if s.UserID != nil {
		userID = sql.NullInt64{Int64: *s.UserID, Valid: true}
	}

	id, err := r.db.ExecReturningID(query,
		userID, s.DisplayName, s.Score, string(s.Mode), string(s.Difficulty), s.CreatedAt,
	)
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// TopScores returns the highest scores for a mode/difficulty, best first
func (r *LeaderboardRepository) TopScores(mode models.GameMode, difficulty models.Difficulty, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT display_name, score
		FROM leaderboard_scores
		WHERE mode = ? AND difficulty = ?
		ORDER BY score DESC, created_at ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, string(mode), string(difficulty), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.DisplayName, &e.Score); err != nil {
			return nil, err
		}
		rank++
		e.Rank = rank
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// BestScoreForUser returns a user's best score for a mode/difficulty, 0 if none
func (r *LeaderboardRepository) BestScoreForUser(userID int64, mode models.GameMode, difficulty models.Difficulty) (int, error) {
	query := `
		SELECT COALESCE(MAX(score), 0)
		FROM leaderboard_scores
		WHERE user_id = ? AND mode = ? AND difficulty = ?
	`

	var best int
	err := r.db.QueryRow(query, userID, string(mode), string(difficulty)).Scan(&best)
	return best, err
}
