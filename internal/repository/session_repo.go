package repository

import (
	"database/sql"
	"time"

	"realvsai/internal/database"
	"realvsai/internal/models"
)

// SessionRepository handles game session database operations
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, mode, difficulty, current_turn, total_turns, score, lives,
	starting_lives, current_streak, current_real_image, current_ai_image,
	left_is_real, shown_images, time_penalty, last_pair_key, last_selection,
	last_real_image, completed, owner_user_id, created_at, updated_at
`

// Create inserts a new game session
func (r *SessionRepository) Create(s *models.GameSession) error {
	query := `
		INSERT INTO game_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	var owner sql.NullInt64
	if s.OwnerUserID != nil {
		owner = sql.NullInt64{Int64: *s.OwnerUserID, Valid: true}
	}

	_, err := r.db.Exec(query,
		s.ID, string(s.Mode), string(s.Difficulty), s.CurrentTurn, s.TotalTurns,
		s.Score, s.Lives, s.StartingLives, s.CurrentStreak,
		s.CurrentRealImage, s.CurrentAIImage, s.LeftIsReal,
		imageIDsToString(s.ShownImages), s.TimePenalty,
		s.LastPairKey, s.LastSelection, s.LastRealImage, s.Completed, owner,
		s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// GetByID retrieves a game session, returning nil when it does not exist
func (r *SessionRepository) GetByID(sessionID string) (*models.GameSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE id = ?`
	return r.scanSession(r.db.QueryRow(query, sessionID))
}

// ActiveForUserAndMode returns the user's most recent uncompleted session for
// a mode, or nil when there is none. This is the mode-specific recovery path:
// each mode's live session is recoverable without any shared "current session"
// alias.
func (r *SessionRepository) ActiveForUserAndMode(userID int64, mode models.GameMode) (*models.GameSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM game_sessions
		WHERE owner_user_id = ? AND mode = ? AND completed = ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanSession(r.db.QueryRow(query, userID, string(mode), false))
}

// Update persists every mutable session field in a single statement so a
// read-modify-write either lands completely or not at all
func (r *SessionRepository) Update(s *models.GameSession) error {
	query := `
		UPDATE game_sessions
		SET current_turn = ?, score = ?, lives = ?, current_streak = ?,
		    current_real_image = ?, current_ai_image = ?, left_is_real = ?,
		    shown_images = ?, time_penalty = ?, last_pair_key = ?,
		    last_selection = ?, last_real_image = ?, completed = ?,
		    updated_at = ?
		WHERE id = ?
	`

	s.UpdatedAt = time.Now().UTC()

	_, err := r.db.Exec(query,
		s.CurrentTurn, s.Score, s.Lives, s.CurrentStreak,
		s.CurrentRealImage, s.CurrentAIImage, s.LeftIsReal,
		imageIDsToString(s.ShownImages), s.TimePenalty,
		s.LastPairKey, s.LastSelection, s.LastRealImage, s.Completed,
		s.UpdatedAt, s.ID,
	)
	return err
}

func (r *SessionRepository) scanSession(row *sql.Row) (*models.GameSession, error) {
	s := &models.GameSession{}
	var mode, difficulty, shownImages string
	var owner sql.NullInt64

	err := row.Scan(
		&s.ID, &mode, &difficulty, &s.CurrentTurn, &s.TotalTurns,
		&s.Score, &s.Lives, &s.StartingLives, &s.CurrentStreak,
		&s.CurrentRealImage, &s.CurrentAIImage, &s.LeftIsReal,
		&shownImages, &s.TimePenalty, &s.LastPairKey, &s.LastSelection,
		&s.LastRealImage, &s.Completed, &owner, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Mode = models.GameMode(mode)
	s.Difficulty = models.Difficulty(difficulty)
	s.ShownImages = parseImageIDs(shownImages)
	if owner.Valid {
		s.OwnerUserID = &owner.Int64
	}

	return s, nil
}
