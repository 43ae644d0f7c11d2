package service

import (
	"fmt"
	"math/rand"

	"realvsai/internal/models"
)

// ImageCatalog is the catalog access needed by image selection
type ImageCatalog interface {
	GetByID(imageID int64) (*models.Image, error)
	PickRandomUnused(difficulty models.Difficulty, isReal bool, excluded []int64) (*models.Image, error)
}

// ImageService picks unused real/AI images for turns and bonus challenges.
// It fails closed with ErrNoImagesAvailable when a category is exhausted;
// reusing an image would defeat the anti-repetition guarantee the shown-image
// history exists for.
type ImageService struct {
	catalog ImageCatalog
}

// NewImageService creates a new image service
func NewImageService(catalog ImageCatalog) *ImageService {
	return &ImageService{catalog: catalog}
}

// SelectPair draws an unused real/AI pair for the difficulty, uniformly at
// random, with a uniform 50/50 left/right placement
func (s *ImageService) SelectPair(difficulty models.Difficulty, shownImages []int64) (*models.ImagePair, error) {
	realImg, err := s.catalog.PickRandomUnused(difficulty, true, shownImages)
	if err != nil {
		return nil, fmt.Errorf("failed to pick real image: %w", err)
	}
	if realImg == nil {
		return nil, ErrNoImagesAvailable
	}

	excluded := append(append([]int64{}, shownImages...), realImg.ID)
	ai, err := s.catalog.PickRandomUnused(difficulty, false, excluded)
	if err != nil {
		return nil, fmt.Errorf("failed to pick AI image: %w", err)
	}
	if ai == nil {
		return nil, ErrNoImagesAvailable
	}

	return &models.ImagePair{
		Real:       *realImg,
		AI:         *ai,
		LeftIsReal: rand.Intn(2) == 0,
	}, nil
}

// SelectBonusSet draws a bonus challenge. Hard difficulty always gets the
// four-image form (1 real among 3 AI); other difficulties get a 50/50 choice
// between the four-image form and a single-image true/false form, falling
// back to the four-image form when no unused single image remains.
func (s *ImageService) SelectBonusSet(difficulty models.Difficulty, shownImages []int64) (*models.BonusChallenge, error) {
	if difficulty == models.DifficultyHard {
		return s.fourImageChallenge(difficulty, shownImages)
	}

	if rand.Intn(2) == 0 {
		challenge, err := s.singleImageChallenge(difficulty, shownImages)
		if err == nil {
			return challenge, nil
		}
		if err != ErrNoImagesAvailable {
			return nil, err
		}
		// Fall through to the four-image form
	}

	return s.fourImageChallenge(difficulty, shownImages)
}

func (s *ImageService) fourImageChallenge(difficulty models.Difficulty, shownImages []int64) (*models.BonusChallenge, error) {
	realImg, err := s.catalog.PickRandomUnused(difficulty, true, shownImages)
	if err != nil {
		return nil, fmt.Errorf("failed to pick real image: %w", err)
	}
	if realImg == nil {
		return nil, ErrNoImagesAvailable
	}

	excluded := append(append([]int64{}, shownImages...), realImg.ID)
	ais := make([]models.Image, 0, 3)
	for len(ais) < 3 {
		ai, err := s.catalog.PickRandomUnused(difficulty, false, excluded)
		if err != nil {
			return nil, fmt.Errorf("failed to pick AI image: %w", err)
		}
		if ai == nil {
			return nil, ErrNoImagesAvailable
		}
		ais = append(ais, *ai)
		excluded = append(excluded, ai.ID)
	}

	position := rand.Intn(4)
	images := make([]models.Image, 0, 4)
	images = append(images, ais[:position]...)
	images = append(images, *realImg)
	images = append(images, ais[position:]...)

	return &models.BonusChallenge{
		Type:         models.BonusFourImage,
		Images:       images,
		RealPosition: position,
	}, nil
}

func (s *ImageService) singleImageChallenge(difficulty models.Difficulty, shownImages []int64) (*models.BonusChallenge, error) {
	wantReal := rand.Intn(2) == 0

	img, err := s.catalog.PickRandomUnused(difficulty, wantReal, shownImages)
	if err != nil {
		return nil, fmt.Errorf("failed to pick image: %w", err)
	}
	if img == nil {
		// Try the other category before giving up
		img, err = s.catalog.PickRandomUnused(difficulty, !wantReal, shownImages)
		if err != nil {
			return nil, fmt.Errorf("failed to pick image: %w", err)
		}
	}
	if img == nil {
		return nil, ErrNoImagesAvailable
	}

	return &models.BonusChallenge{
		Type:   models.BonusSingleImage,
		Image:  img,
		IsReal: img.IsReal,
	}, nil
}
