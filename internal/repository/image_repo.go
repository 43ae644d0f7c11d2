package repository

import (
	"database/sql"
	"strings"

	"realvsai/internal/database"
	"realvsai/internal/models"
)

// ImageRepository handles image catalog database operations
type ImageRepository struct {
	db database.DBTX
}

// NewImageRepository creates a new image repository
func NewImageRepository(db database.DBTX) *ImageRepository {
	return &ImageRepository{db: db}
}

// GetByID retrieves a catalog image, returning nil when it does not exist
func (r *ImageRepository) GetByID(imageID int64) (*models.Image, error) {
	query := `
		SELECT id, file_name, description, is_real, difficulty
		FROM images
		WHERE id = ?
	`
	return r.scanImage(r.db.QueryRow(query, imageID))
}

// PickRandomUnused draws one image uniformly at random from the catalog
// restricted to difficulty and category, excluding already-shown images.
// Returns nil when the exclusion set exhausts the category; the caller must
// fail closed rather than reuse an image. The endless tier draws from the
// whole catalog.
func (r *ImageRepository) PickRandomUnused(difficulty models.Difficulty, isReal bool, excluded []int64) (*models.Image, error) {
	query := `
		SELECT id, file_name, description, is_real, difficulty
		FROM images
		WHERE is_real = ?
	`
	args := []interface{}{isReal}

	if difficulty != models.DifficultyEndless {
		query += " AND difficulty = ?"
		args = append(args, string(difficulty))
	}

	if len(excluded) > 0 {
		query += " AND id NOT IN (" + placeholders(len(excluded)) + ")"
		for _, id := range excluded {
			args = append(args, id)
		}
	}

	query += " ORDER BY " + r.db.GetDialect().RandomOrderClause() + " LIMIT 1"

	return r.scanImage(r.db.QueryRow(query, args...))
}

// CountUnused counts catalog images left for a difficulty and category after
// excluding already-shown images
func (r *ImageRepository) CountUnused(difficulty models.Difficulty, isReal bool, excluded []int64) (int, error) {
	query := "SELECT COUNT(*) FROM images WHERE is_real = ?"
	args := []interface{}{isReal}

	if difficulty != models.DifficultyEndless {
		query += " AND difficulty = ?"
		args = append(args, string(difficulty))
	}

	if len(excluded) > 0 {
		query += " AND id NOT IN (" + placeholders(len(excluded)) + ")"
		for _, id := range excluded {
			args = append(args, id)
		}
	}

	var count int
	err := r.db.QueryRow(query, args...).Scan(&count)
	return count, err
}

// Create inserts a catalog image and returns it with its assigned ID
func (r *ImageRepository) Create(fileName, description string, isReal bool, difficulty models.Difficulty) (*models.Image, error) {
	query := `
		INSERT INTO images (file_name, description, is_real, difficulty)
		VALUES (?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, fileName, description, isReal, string(difficulty))
	if err != nil {
		return nil, err
	}

	return &models.Image{
		ID:          id,
		FileName:    fileName,
		Description: description,
		IsReal:      isReal,
		Difficulty:  difficulty,
	}, nil
}

func (r *ImageRepository) scanImage(row *sql.Row) (*models.Image, error) {
	img := &models.Image{}
	var difficulty string

	err := row.Scan(&img.ID, &img.FileName, &img.Description, &img.IsReal, &difficulty)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	img.Difficulty = models.Difficulty(difficulty)
	return img, nil
}

// placeholders builds a "?, ?, ..." list of the given length
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
