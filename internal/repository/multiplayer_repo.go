package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"realvsai/internal/database"
	"realvsai/internal/models"
)

// MultiplayerRepository handles multiplayer session database operations.
// Player slots and chests are stored as JSON columns so slot access in code
// is always through the indexed array, never through built-up column names.
type MultiplayerRepository struct {
	db database.DBTX
}

// NewMultiplayerRepository creates a new multiplayer repository
func NewMultiplayerRepository(db database.DBTX) *MultiplayerRepository {
	return &MultiplayerRepository{db: db}
}

const multiplayerColumns = `
	id, status, difficulty, current_turn, total_turns, current_real_image,
	current_ai_image, left_is_real, shown_images, players, chests,
	created_at, updated_at
`

// Create inserts a new multiplayer session
func (r *MultiplayerRepository) Create(s *models.MultiplayerSession) error {
	query := `
		INSERT INTO multiplayer_sessions (` + multiplayerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	players, chests, err := marshalSlots(s)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(query,
		s.ID, string(s.Status), string(s.Difficulty), s.CurrentTurn, s.TotalTurns,
		s.CurrentRealImage, s.CurrentAIImage, s.LeftIsReal,
		imageIDsToString(s.ShownImages), players, chests,
		s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// GetByID retrieves a multiplayer session, returning nil when it does not exist
func (r *MultiplayerRepository) GetByID(sessionID string) (*models.MultiplayerSession, error) {
	query := `SELECT ` + multiplayerColumns + ` FROM multiplayer_sessions WHERE id = ?`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanMultiplayer(rows)
}

// Update persists every mutable field of a multiplayer session in one statement
func (r *MultiplayerRepository) Update(s *models.MultiplayerSession) error {
	query := `
		UPDATE multiplayer_sessions
		SET status = ?, current_turn = ?, current_real_image = ?,
		    current_ai_image = ?, left_is_real = ?, shown_images = ?,
		    players = ?, chests = ?, updated_at = ?
		WHERE id = ?
	`

	s.UpdatedAt = time.Now().UTC()

	players, chests, err := marshalSlots(s)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(query,
		string(s.Status), s.CurrentTurn, s.CurrentRealImage,
		s.CurrentAIImage, s.LeftIsReal, imageIDsToString(s.ShownImages),
		players, chests, s.UpdatedAt,
		s.ID,
	)
	return err
}

// ListWaitingBefore returns WAITING sessions created before the cutoff,
// used by the bot-fill housekeeping sweep
func (r *MultiplayerRepository) ListWaitingBefore(cutoff time.Time) ([]*models.MultiplayerSession, error) {
	query := `
		SELECT ` + multiplayerColumns + `
		FROM multiplayer_sessions
		WHERE status = ? AND created_at < ?
	`

	rows, err := r.db.Query(query, string(models.StatusWaiting), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.MultiplayerSession
	for rows.Next() {
		s, err := scanMultiplayer(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func marshalSlots(s *models.MultiplayerSession) (players, chests string, err error) {
	p, err := json.Marshal(s.Players)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal players: %w", err)
	}
	c, err := json.Marshal(s.Chests)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal chests: %w", err)
	}
	return string(p), string(c), nil
}

func scanMultiplayer(rows *sql.Rows) (*models.MultiplayerSession, error) {
	s := &models.MultiplayerSession{}
	var status, difficulty, shownImages, players, chests string

	err := rows.Scan(
		&s.ID, &status, &difficulty, &s.CurrentTurn, &s.TotalTurns,
		&s.CurrentRealImage, &s.CurrentAIImage, &s.LeftIsReal,
		&shownImages, &players, &chests,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Status = models.MultiplayerStatus(status)
	s.Difficulty = models.Difficulty(difficulty)
	s.ShownImages = parseImageIDs(shownImages)

	if err := json.Unmarshal([]byte(players), &s.Players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players: %w", err)
	}
	if err := json.Unmarshal([]byte(chests), &s.Chests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chests: %w", err)
	}

	return s, nil
}
