package repository

import (
	"time"

	"realvsai/internal/database"
	"realvsai/internal/models"
)

// AchievementRepository handles achievement database operations
type AchievementRepository struct {
	db database.DBTX
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db database.DBTX) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Award records an achievement for a user. Awarding the same code twice is a
// no-op.
func (r *AchievementRepository) Award(userID int64, code string) error {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM achievements WHERE user_id = ? AND code = ?",
		userID, code,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = r.db.Exec(
		"INSERT INTO achievements (user_id, code, earned_at) VALUES (?, ?, ?)",
		userID, code, time.Now().UTC(),
	)
	return err
}

// ListForUser returns a user's achievements, newest first
func (r *AchievementRepository) ListForUser(userID int64) ([]models.Achievement, error) {
	query := `
		SELECT id, user_id, code, earned_at
		FROM achievements
		WHERE user_id = ?
		ORDER BY earned_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Code, &a.EarnedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}
