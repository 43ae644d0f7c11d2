package service

import (
	"errors"
	"testing"
	"time"

	"realvsai/internal/models"
	"realvsai/internal/security"
)

func newTestBonusSetup(difficulty models.Difficulty) (*GameService, *BonusService, *fakeSessionStore) {
	store := newFakeSessionStore()
	locks := NewSessionLocks()
	images := NewImageService(newFakeCatalog(20, difficulty))
	signer := security.NewScoreSigner("test-secret", 300*time.Second)
	games := NewGameService(store, images, signer, &recordingSink{}, locks)
	bonus := NewBonusService(store, images, locks)
	return games, bonus, store
}

func TestBonusResultAwardsLife(t *testing.T) {
	games, bonus, store := newTestBonusSetup(models.DifficultyEasy)
	session, _ := games.StartGame(nil, models.ModeSingle, models.DifficultyEasy, 0)

	// Burn one life so the award has room below the cap
	if _, err := games.GetCurrentTurnImages(session.ID); err != nil {
		t.Fatalf("GetCurrentTurnImages() error = %v", err)
	}
	if _, err := games.SubmitAnswer(session.ID, "ai", 500); err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}

	outcome, err := bonus.ResolveBonusResult(session.ID, true)
	if err != nil {
		t.Fatalf("ResolveBonusResult() error = %v", err)
	}
	if !outcome.LifeAwarded {
		t.Error("expected a life award below the cap")
	}
	if outcome.Lives != 5 {
		t.Errorf("lives = %d, want 5", outcome.Lives)
	}

	stored, _ := store.GetByID(session.ID)
	if stored.Lives != 5 {
		t.Errorf("stored lives = %d, want 5", stored.Lives)
	}
}

func TestBonusResultAtMaxLivesPaysPoints(t *testing.T) {
	games, bonus, _ := newTestBonusSetup(models.DifficultyEasy)
	session, _ := games.StartGame(nil, models.ModeSingle, models.DifficultyEasy, 0)

	outcome, err := bonus.ResolveBonusResult(session.ID, true)
	if err != nil {
		t.Fatalf("ResolveBonusResult() error = %v", err)
	}
	if outcome.LifeAwarded {
		t.Error("no life award at the cap")
	}
	if outcome.PointsAwarded != 50 {
		t.Errorf("points awarded = %d, want 50", outcome.PointsAwarded)
	}
	if outcome.Score != 50 {
		t.Errorf("score = %d, want 50", outcome.Score)
	}
	if outcome.Lives != 5 {
		t.Errorf("lives = %d, want 5", outcome.Lives)
	}
}

func TestBonusResultWrongHalvesScore(t *testing.T) {
	games, bonus, _ := newTestBonusSetup(models.DifficultyMedium)
	session, _ := games.StartGame(nil, models.ModeSingle, models.DifficultyMedium, 0)

	// Score 3 correct answers first (30 points)
	for i := 0; i < 3; i++ {
		if _, err := games.GetCurrentTurnImages(session.ID); err != nil {
			t.Fatalf("GetCurrentTurnImages() error = %v", err)
		}
		if _, err := games.SubmitAnswer(session.ID, "real", 500); err != nil {
			t.Fatalf("SubmitAnswer() error = %v", err)
		}
		if _, err := games.AdvanceTurn(session.ID); err != nil {
			t.Fatalf("AdvanceTurn() error = %v", err)
		}
	}

	outcome, err := bonus.ResolveBonusResult(session.ID, false)
	if err != nil {
		t.Fatalf("ResolveBonusResult() error = %v", err)
	}
	if outcome.Score != 15 {
		t.Errorf("score after halving = %d, want 15", outcome.Score)
	}
}

func TestBonusUnavailableInEndless(t *testing.T) {
	games, bonus, _ := newTestBonusSetup(models.DifficultyEndless)
	session, _ := games.StartGame(nil, models.ModeEndless, models.DifficultyEndless, 0)

	if _, err := bonus.GetBonusImages(session.ID); !errors.Is(err, ErrBonusUnavailableInMode) {
		t.Errorf("GetBonusImages() error = %v, want ErrBonusUnavailableInMode", err)
	}
	if _, err := bonus.ResolveBonusResult(session.ID, true); !errors.Is(err, ErrBonusUnavailableInMode) {
		t.Errorf("ResolveBonusResult() error = %v, want ErrBonusUnavailableInMode", err)
	}
}

func TestBonusImagesRecordedAsShown(t *testing.T) {
	games, bonus, store := newTestBonusSetup(models.DifficultyHard)
	session, _ := games.StartGame(nil, models.ModeSingle, models.DifficultyHard, 0)

	challenge, err := bonus.GetBonusImages(session.ID)
	if err != nil {
		t.Fatalf("GetBonusImages() error = %v", err)
	}
	// Hard always gets the four-image form
	if challenge.Type != models.BonusFourImage {
		t.Fatalf("challenge type = %s, want four_image", challenge.Type)
	}
	if len(challenge.Images) != 4 {
		t.Fatalf("challenge has %d images, want 4", len(challenge.Images))
	}
	if !challenge.Images[challenge.RealPosition].IsReal {
		t.Error("image at RealPosition is not the real one")
	}
	aiCount := 0
	for i := range challenge.Images {
		if !challenge.Images[i].IsReal {
			aiCount++
		}
	}
	if aiCount != 3 {
		t.Errorf("AI image count = %d, want 3", aiCount)
	}

	stored, _ := store.GetByID(session.ID)
	if len(stored.ShownImages) != 4 {
		t.Errorf("shown images = %d, want 4 after bonus", len(stored.ShownImages))
	}
}
