package service

import (
	"errors"
	"testing"
	"time"

	"realvsai/internal/models"
	"realvsai/internal/security"
)

func newTestGameService(pairs int, difficulty models.Difficulty) (*GameService, *fakeSessionStore, *recordingSink) {
	store := newFakeSessionStore()
	sink := &recordingSink{}
	signer := security.NewScoreSigner("test-secret", 300*time.Second)
	images := NewImageService(newFakeCatalog(pairs, difficulty))
	return NewGameService(store, images, signer, sink, NewSessionLocks()), store, sink
}

func TestStartGame(t *testing.T) {
	tests := []struct {
		name       string
		mode       models.GameMode
		difficulty models.Difficulty
		wantTurns  int
		wantLives  int
		wantErr    bool
	}{
		{name: "easy", mode: models.ModeSingle, difficulty: models.DifficultyEasy, wantTurns: 20, wantLives: 5},
		{name: "medium", mode: models.ModeSingle, difficulty: models.DifficultyMedium, wantTurns: 50, wantLives: 3},
		{name: "hard", mode: models.ModeSingle, difficulty: models.DifficultyHard, wantTurns: 100, wantLives: 1},
		{name: "endless", mode: models.ModeEndless, difficulty: models.DifficultyEndless, wantTurns: 0, wantLives: 1},
		{name: "endless coerces difficulty", mode: models.ModeEndless, difficulty: models.DifficultyEasy, wantTurns: 0, wantLives: 1},
		{name: "daily challenge", mode: models.ModeDaily, difficulty: models.DifficultyMedium, wantTurns: 50, wantLives: 3},
		{name: "single rejects endless tier", mode: models.ModeSingle, difficulty: models.DifficultyEndless, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestGameService(5, tt.difficulty)
			session, err := svc.StartGame(nil, tt.mode, tt.difficulty, 0)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidModeOrDifficulty) {
					t.Fatalf("StartGame() error = %v, want ErrInvalidModeOrDifficulty", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("StartGame() error = %v", err)
			}
			if session.TotalTurns != tt.wantTurns {
				t.Errorf("TotalTurns = %d, want %d", session.TotalTurns, tt.wantTurns)
			}
			if session.Lives != tt.wantLives {
				t.Errorf("Lives = %d, want %d", session.Lives, tt.wantLives)
			}
			if session.CurrentTurn != 1 {
				t.Errorf("CurrentTurn = %d, want 1", session.CurrentTurn)
			}
		})
	}
}

func TestStartGameAwardsFirstGame(t *testing.T) {
	svc, _, sink := newTestGameService(5, models.DifficultyEasy)
	userID := int64(7)
	if _, err := svc.StartGame(&userID, models.ModeSingle, models.DifficultyEasy, 0); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if !sink.has(7, models.AchievementFirstGame) {
		t.Error("expected first_game achievement for owner")
	}
}

// Five correct answers on medium: no time bonus (not hard, not endless), one
// streak milestone at 5, so 5*10 + 10 = 60
func TestFiveCorrectAnswersOnMedium(t *testing.T) {
	svc, _, _ := newTestGameService(10, models.DifficultyMedium)
	session, err := svc.StartGame(nil, models.ModeSingle, models.DifficultyMedium, 0)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	var last *AnswerResult
	for i := 0; i < 5; i++ {
		if _, err := svc.GetCurrentTurnImages(session.ID); err != nil {
			t.Fatalf("GetCurrentTurnImages() turn %d error = %v", i+1, err)
		}
		last, err = svc.SubmitAnswer(session.ID, "real", 500)
		if err != nil {
			t.Fatalf("SubmitAnswer() turn %d error = %v", i+1, err)
		}
		if !last.Correct {
			t.Fatalf("answer %d not correct", i+1)
		}
		if last.TimeBonus != 0 {
			t.Errorf("turn %d time bonus = %d, want 0 on medium", i+1, last.TimeBonus)
		}
		if _, err := svc.AdvanceTurn(session.ID); err != nil {
			t.Fatalf("AdvanceTurn() turn %d error = %v", i+1, err)
		}
	}

	if last.Score != 60 {
		t.Errorf("score after 5 correct = %d, want 60", last.Score)
	}
	if last.StreakBonus != 10 {
		t.Errorf("streak bonus at 5 = %d, want 10", last.StreakBonus)
	}
	if last.Streak != 5 {
		t.Errorf("streak = %d, want 5", last.Streak)
	}
}

// Five wrong answers on easy exhaust all lives; the sixth submission is a
// terminal no-op that mutates nothing
func TestFiveWrongAnswersEndEasyGame(t *testing.T) {
	svc, store, _ := newTestGameService(10, models.DifficultyEasy)
	session, err := svc.StartGame(nil, models.ModeSingle, models.DifficultyEasy, 0)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	var last *AnswerResult
	for i := 0; i < 5; i++ {
		if _, err := svc.GetCurrentTurnImages(session.ID); err != nil {
			t.Fatalf("GetCurrentTurnImages() error = %v", err)
		}
		last, err = svc.SubmitAnswer(session.ID, "ai", 500)
		if err != nil {
			t.Fatalf("SubmitAnswer() error = %v", err)
		}
		if last.Correct {
			t.Fatal("wrong answer marked correct")
		}
		if last.ImageDescription == "" {
			t.Error("wrong answer must carry the real image description")
		}
		if i < 4 {
			if _, err := svc.AdvanceTurn(session.ID); err != nil {
				t.Fatalf("AdvanceTurn() error = %v", err)
			}
		}
	}

	if last.Lives != 0 {
		t.Errorf("lives = %d, want 0", last.Lives)
	}
	if !last.Completed {
		t.Error("session should be completed after losing all lives")
	}

	sixth, err := svc.SubmitAnswer(session.ID, "ai", 500)
	if err != nil {
		t.Fatalf("terminal SubmitAnswer() error = %v", err)
	}
	if !sixth.Terminal {
		t.Error("sixth submission should be terminal")
	}
	if sixth.Score != last.Score || sixth.Lives != last.Lives {
		t.Error("terminal submission must not mutate score or lives")
	}

	stored, _ := store.GetByID(session.ID)
	if !stored.Completed || stored.Lives != 0 {
		t.Errorf("stored session completed=%v lives=%d, want completed with 0 lives", stored.Completed, stored.Lives)
	}
}

func TestDuplicateSubmissionIsNoOp(t *testing.T) {
	svc, _, _ := newTestGameService(10, models.DifficultyEasy)
	session, _ := svc.StartGame(nil, models.ModeSingle, models.DifficultyEasy, 0)

	if _, err := svc.GetCurrentTurnImages(session.ID); err != nil {
		t.Fatalf("GetCurrentTurnImages() error = %v", err)
	}
	first, err := svc.SubmitAnswer(session.ID, "real", 500)
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}

	second, err := svc.SubmitAnswer(session.ID, "real", 500)
	if err != nil {
		t.Fatalf("duplicate SubmitAnswer() error = %v", err)
	}
	if !second.Duplicate {
		t.Error("retried submission should be flagged duplicate")
	}
	if second.Score != first.Score || second.Lives != first.Lives || second.Streak != first.Streak {
		t.Error("duplicate submission must not change score, lives or streak")
	}

	// A different selection with no pending pair is not a benign retry
	if _, err := svc.SubmitAnswer(session.ID, "ai", 500); !errors.Is(err, ErrNoPendingTurn) {
		t.Errorf("mismatched retry error = %v, want ErrNoPendingTurn", err)
	}
}

// A retried wrong answer carries the same real-image description as the
// original response
func TestDuplicateWrongAnswerReplaysDescription(t *testing.T) {
	svc, _, _ := newTestGameService(10, models.DifficultyEasy)
	session, _ := svc.StartGame(nil, models.ModeSingle, models.DifficultyEasy, 0)

	if _, err := svc.GetCurrentTurnImages(session.ID); err != nil {
		t.Fatalf("GetCurrentTurnImages() error = %v", err)
	}
	first, err := svc.SubmitAnswer(session.ID, "ai", 500)
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if first.Correct || first.ImageDescription == "" {
		t.Fatalf("result = %+v, want incorrect with a description", first)
	}

	second, err := svc.SubmitAnswer(session.ID, "ai", 500)
	if err != nil {
		t.Fatalf("duplicate SubmitAnswer() error = %v", err)
	}
	if !second.Duplicate {
		t.Error("retried submission should be flagged duplicate")
	}
	if second.ImageDescription != first.ImageDescription {
		t.Errorf("retry description = %q, want %q", second.ImageDescription, first.ImageDescription)
	}
}

func TestSubmitAnswerWithoutPendingPair(t *testing.T) {
	svc, _, _ := newTestGameService(10, models.DifficultyEasy)
	session, _ := svc.StartGame(nil, models.ModeSingle, models.DifficultyEasy, 0)

	if _, err := svc.SubmitAnswer(session.ID, "real", 500); !errors.Is(err, ErrNoPendingTurn) {
		t.Errorf("SubmitAnswer() error = %v, want ErrNoPendingTurn", err)
	}
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	svc, _, _ := newTestGameService(10, models.DifficultyEasy)
	if _, err := svc.SubmitAnswer("missing", "real", 500); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SubmitAnswer() error = %v, want ErrSessionNotFound", err)
	}
}

// Re-viewing a pending pair keeps the same images but sets the refresh
// penalty, which suppresses the time bonus even on hard difficulty
func TestRefreshSetsTimePenalty(t *testing.T) {
	svc, store, _ := newTestGameService(10, models.DifficultyHard)
	session, _ := svc.StartGame(nil, models.ModeSingle, models.DifficultyHard, 0)

	first, err := svc.GetCurrentTurnImages(session.ID)
	if err != nil {
		t.Fatalf("GetCurrentTurnImages() error = %v", err)
	}
	second, err := svc.GetCurrentTurnImages(session.ID)
	if err != nil {
		t.Fatalf("second GetCurrentTurnImages() error = %v", err)
	}
	if first.Left.ID != second.Left.ID || first.Right.ID != second.Right.ID {
		t.Error("re-view must serve the same pending pair")
	}

	stored, _ := store.GetByID(session.ID)
	if !stored.TimePenalty {
		t.Error("re-view should set the time penalty")
	}

	result, err := svc.SubmitAnswer(session.ID, "real", 500)
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if result.TimeBonus != 0 {
		t.Errorf("time bonus = %d after refresh, want 0", result.TimeBonus)
	}
	if result.Score != BaseScore {
		t.Errorf("score = %d, want %d", result.Score, BaseScore)
	}
}

func TestHardDifficultyTimeBonus(t *testing.T) {
	svc, _, _ := newTestGameService(10, models.DifficultyHard)
	session, _ := svc.StartGame(nil, models.ModeSingle, models.DifficultyHard, 0)

	if _, err := svc.GetCurrentTurnImages(session.ID); err != nil {
		t.Fatalf("GetCurrentTurnImages() error = %v", err)
	}
	result, err := svc.SubmitAnswer(session.ID, "real", 500)
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if result.TimeBonus != 20 {
		t.Errorf("time bonus = %d, want 20", result.TimeBonus)
	}
	if result.Score != 30 {
		t.Errorf("score = %d, want 30", result.Score)
	}
}

func TestAdvancePastFinalTurnCompletes(t *testing.T) {
	svc, _, _ := newTestGameService(10, models.DifficultyEasy)
	session, _ := svc.StartGame(nil, models.ModeSingle, models.DifficultyEasy, 2)

	for i := 0; i < 2; i++ {
		if _, err := svc.GetCurrentTurnImages(session.ID); err != nil {
			t.Fatalf("GetCurrentTurnImages() error = %v", err)
		}
		if _, err := svc.SubmitAnswer(session.ID, "real", 500); err != nil {
			t.Fatalf("SubmitAnswer() error = %v", err)
		}
		view, err := svc.AdvanceTurn(session.ID)
		if err != nil {
			t.Fatalf("AdvanceTurn() error = %v", err)
		}
		if i == 1 && !view.Completed {
			t.Error("advancing past the final turn should complete the session")
		}
	}

	// Terminal: further advances do not move the turn counter
	view, err := svc.AdvanceTurn(session.ID)
	if err != nil {
		t.Fatalf("terminal AdvanceTurn() error = %v", err)
	}
	if !view.Completed {
		t.Error("terminal view should be completed")
	}
	if view.Turn != 3 {
		t.Errorf("turn = %d, want 3", view.Turn)
	}
}

// A 2-pair catalog exhausts after two turns; the third selection fails closed
// rather than repeating an image
func TestImageExhaustionFailsClosed(t *testing.T) {
	svc, store, _ := newTestGameService(2, models.DifficultyEasy)
	session, _ := svc.StartGame(nil, models.ModeSingle, models.DifficultyEasy, 0)

	seen := make(map[int64]bool)
	for i := 0; i < 2; i++ {
		view, err := svc.GetCurrentTurnImages(session.ID)
		if err != nil {
			t.Fatalf("GetCurrentTurnImages() error = %v", err)
		}
		for _, id := range []int64{view.Left.ID, view.Right.ID} {
			if seen[id] {
				t.Errorf("image %d served twice", id)
			}
			seen[id] = true
		}
		if _, err := svc.SubmitAnswer(session.ID, "real", 500); err != nil {
			t.Fatalf("SubmitAnswer() error = %v", err)
		}
		if _, err := svc.AdvanceTurn(session.ID); i < 1 && err != nil {
			t.Fatalf("AdvanceTurn() error = %v", err)
		}
	}

	if _, err := svc.GetCurrentTurnImages(session.ID); !errors.Is(err, ErrNoImagesAvailable) {
		t.Errorf("exhausted catalog error = %v, want ErrNoImagesAvailable", err)
	}

	stored, _ := store.GetByID(session.ID)
	if len(stored.ShownImages) != 4 {
		t.Errorf("shown images = %d, want 4", len(stored.ShownImages))
	}
}

func TestScoreHashVerifies(t *testing.T) {
	signer := security.NewScoreSigner("test-secret", 300*time.Second)
	store := newFakeSessionStore()
	images := NewImageService(newFakeCatalog(5, models.DifficultyEasy))
	svc := NewGameService(store, images, signer, &recordingSink{}, NewSessionLocks())

	session, _ := svc.StartGame(nil, models.ModeSingle, models.DifficultyEasy, 0)
	if _, err := svc.GetCurrentTurnImages(session.ID); err != nil {
		t.Fatalf("GetCurrentTurnImages() error = %v", err)
	}
	result, err := svc.SubmitAnswer(session.ID, "real", 500)
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}

	ts := time.Unix(result.ScoreTimestamp, 0)
	if err := signer.Verify(result.ScoreHash, result.Score, 0, ts, time.Now()); err != nil {
		t.Errorf("score hash from answer response failed verification: %v", err)
	}
}

func TestActiveSessionRecovery(t *testing.T) {
	svc, _, _ := newTestGameService(10, models.DifficultyEasy)
	userID := int64(3)

	session, err := svc.StartGame(&userID, models.ModeSingle, models.DifficultyEasy, 0)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	active, err := svc.ActiveSession(userID, models.ModeSingle)
	if err != nil {
		t.Fatalf("ActiveSession() error = %v", err)
	}
	if active == nil || active.ID != session.ID {
		t.Errorf("ActiveSession() = %+v, want session %s", active, session.ID)
	}

	if active, _ := svc.ActiveSession(userID, models.ModeEndless); active != nil {
		t.Error("ActiveSession() for another mode should be nil")
	}
}
