package service

import (
	"fmt"
	"log"
	"time"

	"realvsai/internal/models"
	"realvsai/internal/security"
)

// SessionStore is the persistence interface for single-player sessions
type SessionStore interface {
	Create(s *models.GameSession) error
	GetByID(sessionID string) (*models.GameSession, error)
	Update(s *models.GameSession) error
	ActiveForUserAndMode(userID int64, mode models.GameMode) (*models.GameSession, error)
}

// TurnView is the state served for one turn of a single-player session
type TurnView struct {
	SessionID       string
	Turn            int
	TotalTurns      int
	Score           int
	Lives           int
	Streak          int
	Completed       bool
	IsFinalTurn     bool
	Left            *models.Image
	Right           *models.Image
	LeftIsReal      bool
	RealDescription string
}

// AnswerResult is the outcome of one answer submission
type AnswerResult struct {
	Correct           bool
	Duplicate         bool
	Terminal          bool
	Score             int
	Lives             int
	Turn              int
	TotalTurns        int
	Streak            int
	StreakBonus       int
	TimeBonus         int
	Completed         bool
	ImageDescription  string
	ScoreHash         string
	ScoreTimestamp    int64
	ScoreVerification string
}

// GameService drives the single-player and endless game state machines
type GameService struct {
	sessions     SessionStore
	images       *ImageService
	signer       *security.ScoreSigner
	achievements Sink
	locks        *SessionLocks
}

// NewGameService creates a new game service
func NewGameService(sessions SessionStore, images *ImageService, signer *security.ScoreSigner, achievements Sink, locks *SessionLocks) *GameService {
	return &GameService{
		sessions:     sessions,
		images:       images,
		signer:       signer,
		achievements: achievements,
		locks:        locks,
	}
}

// StartGame creates and persists a new session. Turn and life limits come
// from the mode/difficulty table; totalTurnsOverride (when positive) replaces
// the derived turn limit for non-endless modes.
func (g *GameService) StartGame(ownerUserID *int64, mode models.GameMode, difficulty models.Difficulty, totalTurnsOverride int) (*models.GameSession, error) {
	if mode == models.ModeEndless {
		difficulty = models.DifficultyEndless
	}

	settings, ok := models.SettingsFor(mode, difficulty)
	if !ok {
		return nil, ErrInvalidModeOrDifficulty
	}

	totalTurns := settings.TotalTurns
	if totalTurnsOverride > 0 && mode != models.ModeEndless {
		totalTurns = totalTurnsOverride
	}

	session := &models.GameSession{
		ID:            security.GenerateSessionID(),
		Mode:          mode,
		Difficulty:    difficulty,
		CurrentTurn:   1,
		TotalTurns:    totalTurns,
		Lives:         settings.Lives,
		StartingLives: settings.Lives,
		OwnerUserID:   ownerUserID,
	}

	if err := g.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if ownerUserID != nil {
		g.achievements.Award(*ownerUserID, models.AchievementFirstGame)
	}

	return session, nil
}

// ActiveSession returns the user's most recent uncompleted session for a
// mode, or nil when there is none
func (g *GameService) ActiveSession(userID int64, mode models.GameMode) (*models.GameSession, error) {
	return g.sessions.ActiveForUserAndMode(userID, mode)
}

// GetCurrentTurnImages returns the image pair for the session's current turn.
// A pending (unanswered) pair is returned unchanged so navigation away and
// back resumes the same turn; that re-view sets the time penalty. With no
// pair pending a fresh one is selected, persisted and recorded in the
// shown-image history.
func (g *GameService) GetCurrentTurnImages(sessionID string) (*TurnView, error) {
	unlock := g.locks.Acquire(sessionID)
	defer unlock()

	session, err := g.load(sessionID)
	if err != nil {
		return nil, err
	}

	return g.turnImagesLocked(session)
}

// SubmitAnswer processes one answer for the pending image pair. A retry of
// the last processed (pair, selection) is a benign no-op that still succeeds.
// A completed session yields a terminal result without mutating anything.
func (g *GameService) SubmitAnswer(sessionID, selection string, responseTimeMs int) (*AnswerResult, error) {
	if selection != "real" && selection != "ai" {
		return nil, ErrInvalidSelection
	}

	unlock := g.locks.Acquire(sessionID)
	defer unlock()

	session, err := g.load(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Completed {
		result := g.answerResult(session)
		result.Terminal = true
		return result, nil
	}

	if !session.HasPendingPair() {
		// Retried request for the pair we just processed: report success
		// without double-counting
		if session.LastPairKey != "" && session.LastSelection == selection {
			result := g.answerResult(session)
			result.Duplicate = true
			result.Correct = selection == "real"
			if !result.Correct {
				result.ImageDescription = g.realImageDescription(session.LastRealImage)
			}
			return result, nil
		}
		return nil, ErrNoPendingTurn
	}

	correct := selection == "real"
	result := &AnswerResult{Correct: correct}

	realImageID := session.CurrentRealImage

	if correct {
		if TimeBonusEligible(session.Mode, session.Difficulty, session.TimePenalty) {
			result.TimeBonus = TimeBonus(responseTimeMs)
		}
		session.CurrentStreak++
		result.StreakBonus = StreakBonus(session.Mode, session.CurrentStreak)
		session.Score += BaseScore + result.TimeBonus + result.StreakBonus

		g.awardStreakMilestones(session)
	} else {
		session.Lives--
		if session.Lives < 0 {
			session.Lives = 0
		}
		session.CurrentStreak = 0

		result.ImageDescription = g.realImageDescription(realImageID)
	}

	// Record the idempotency marker and clear the served pair so the next
	// turn is forced to select a fresh one
	session.LastPairKey = session.PairKey()
	session.LastSelection = selection
	session.LastRealImage = realImageID
	session.ClearCurrentPair()

	if session.Lives <= 0 || (session.TotalTurns > 0 && session.CurrentTurn > session.TotalTurns) {
		session.Completed = true
		g.awardCompletion(session)
	}

	if err := g.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist answer: %w", err)
	}

	g.fillAnswerResult(result, session)
	return result, nil
}

// AdvanceTurn moves the session to its next turn and selects the next image
// pair. Calling it twice advances twice; retries are the caller's problem.
// Completed or out-of-lives sessions get a terminal view with no advance.
func (g *GameService) AdvanceTurn(sessionID string) (*TurnView, error) {
	unlock := g.locks.Acquire(sessionID)
	defer unlock()

	session, err := g.load(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Completed || session.Lives <= 0 {
		return terminalView(session), nil
	}

	session.CurrentTurn++

	if session.TotalTurns > 0 && session.CurrentTurn > session.TotalTurns {
		session.Completed = true
		g.awardCompletion(session)
		if err := g.sessions.Update(session); err != nil {
			return nil, fmt.Errorf("failed to persist completion: %w", err)
		}
		return terminalView(session), nil
	}

	if err := g.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist turn advance: %w", err)
	}

	return g.turnImagesLocked(session)
}

// load fetches a session or fails with ErrSessionNotFound
func (g *GameService) load(sessionID string) (*models.GameSession, error) {
	session, err := g.sessions.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	// A turn counter below 1 is a data-integrity fault; heal it but make
	// sure it is visible in the logs
	if session.CurrentTurn < 1 {
		log.Printf("INTEGRITY: session %s had invalid turn %d, resetting to 1", session.ID, session.CurrentTurn)
		session.CurrentTurn = 1
	}

	return session, nil
}

func (g *GameService) turnImagesLocked(session *models.GameSession) (*TurnView, error) {
	if session.Completed {
		return terminalView(session), nil
	}

	if session.HasPendingPair() {
		// The pair was already served once; suppress the time bonus for it
		if !session.TimePenalty {
			session.TimePenalty = true
			if err := g.sessions.Update(session); err != nil {
				return nil, fmt.Errorf("failed to persist time penalty: %w", err)
			}
		}
		return g.pendingView(session)
	}

	pair, err := g.images.SelectPair(session.Difficulty, session.ShownImages)
	if err != nil {
		// Content exhaustion leaves the session awaiting an answer with no
		// pair; the caller presents it as an end-of-content ending
		return nil, err
	}

	session.CurrentRealImage = pair.Real.ID
	session.CurrentAIImage = pair.AI.ID
	session.LeftIsReal = pair.LeftIsReal
	session.ShownImages = append(session.ShownImages, pair.Real.ID, pair.AI.ID)
	session.TimePenalty = false

	if err := g.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist turn images: %w", err)
	}

	view := viewFor(session)
	left, right := pair.Left(), pair.Right()
	view.Left = &left
	view.Right = &right
	view.LeftIsReal = pair.LeftIsReal
	view.RealDescription = pair.Real.DescriptionOrFallback()
	return view, nil
}

// pendingView rebuilds the view for an already-assigned pair
func (g *GameService) pendingView(session *models.GameSession) (*TurnView, error) {
	realImg, err := g.images.catalog.GetByID(session.CurrentRealImage)
	if err != nil {
		return nil, fmt.Errorf("failed to load real image: %w", err)
	}
	aiImg, err := g.images.catalog.GetByID(session.CurrentAIImage)
	if err != nil {
		return nil, fmt.Errorf("failed to load AI image: %w", err)
	}
	if realImg == nil || aiImg == nil {
		return nil, ErrNoImagesAvailable
	}

	pair := &models.ImagePair{Real: *realImg, AI: *aiImg, LeftIsReal: session.LeftIsReal}

	view := viewFor(session)
	left, right := pair.Left(), pair.Right()
	view.Left = &left
	view.Right = &right
	view.LeftIsReal = session.LeftIsReal
	view.RealDescription = realImg.DescriptionOrFallback()
	return view, nil
}

func (g *GameService) realImageDescription(imageID int64) string {
	img, err := g.images.catalog.GetByID(imageID)
	if err != nil || img == nil {
		return fmt.Sprintf("a real photograph (image %d)", imageID)
	}
	return img.DescriptionOrFallback()
}

func (g *GameService) awardStreakMilestones(session *models.GameSession) {
	if session.OwnerUserID == nil {
		return
	}
	switch session.CurrentStreak {
	case 5:
		g.achievements.Award(*session.OwnerUserID, models.AchievementStreakFive)
	case 10:
		g.achievements.Award(*session.OwnerUserID, models.AchievementStreakTen)
	case 20:
		g.achievements.Award(*session.OwnerUserID, models.AchievementStreakTwenty)
	}
}

func (g *GameService) awardCompletion(session *models.GameSession) {
	if session.OwnerUserID == nil {
		return
	}
	if session.IsFlawless() {
		g.achievements.Award(*session.OwnerUserID, models.AchievementFlawless)
	}
}

// answerResult builds a result reflecting current session state only
func (g *GameService) answerResult(session *models.GameSession) *AnswerResult {
	result := &AnswerResult{}
	g.fillAnswerResult(result, session)
	return result
}

func (g *GameService) fillAnswerResult(result *AnswerResult, session *models.GameSession) {
	result.Score = session.Score
	result.Lives = session.Lives
	result.Turn = session.CurrentTurn
	result.TotalTurns = session.TotalTurns
	result.Streak = session.CurrentStreak
	result.Completed = session.Completed

	// Every answer response carries a fresh score hash so the client can
	// submit to the leaderboard later
	ts := time.Now()
	ownerID := int64(0)
	if session.OwnerUserID != nil {
		ownerID = *session.OwnerUserID
	}
	result.ScoreHash = g.signer.Sign(session.Score, ownerID, ts)
	result.ScoreTimestamp = ts.Unix()
	result.ScoreVerification = ts.UTC().Format(time.RFC3339)
}

func terminalView(session *models.GameSession) *TurnView {
	view := viewFor(session)
	view.Completed = true
	return view
}

func viewFor(session *models.GameSession) *TurnView {
	return &TurnView{
		SessionID:   session.ID,
		Turn:        session.CurrentTurn,
		TotalTurns:  session.TotalTurns,
		Score:       session.Score,
		Lives:       session.Lives,
		Streak:      session.CurrentStreak,
		Completed:   session.Completed,
		IsFinalTurn: session.IsFinalTurn(),
	}
}
