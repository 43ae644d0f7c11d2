package service

import (
	"fmt"
	"math/rand"
	"time"

	"realvsai/internal/models"
	"realvsai/internal/security"
)

// MultiplayerStore is the persistence interface for multiplayer sessions
type MultiplayerStore interface {
	Create(s *models.MultiplayerSession) error
	GetByID(sessionID string) (*models.MultiplayerSession, error)
	Update(s *models.MultiplayerSession) error
	ListWaitingBefore(cutoff time.Time) ([]*models.MultiplayerSession, error)
}

// MultiplayerTurnView is the shared turn state served to every player
type MultiplayerTurnView struct {
	SessionID  string
	Status     models.MultiplayerStatus
	Turn       int
	TotalTurns int
	Left       *models.Image
	Right      *models.Image
	LeftIsReal bool
	Completed  bool
	Players    [models.MaxPlayers]models.PlayerSlot
}

// MultiplayerAnswerResult is the per-player outcome of one answer
type MultiplayerAnswerResult struct {
	Correct    bool
	Duplicate  bool
	PlayerSlot int
	Score      int
	Streak     int
}

// ChestResult reveals one claimed chest to all players
type ChestResult struct {
	PlayerSlot int
	ChestIndex int
	Value      int
	Score      int
	Chests     [models.ChestCount]models.Chest
}

// MultiplayerResult is the final standing of a completed session
type MultiplayerResult struct {
	WinnerSlot int // -1 on a tie
	Tie        bool
	Players    [models.MaxPlayers]models.PlayerSlot
}

// MultiplayerService drives up-to-four-player shared sessions. All players
// see the same image pair each turn; the turn only advances once every human
// player has answered.
type MultiplayerService struct {
	store        MultiplayerStore
	images       *ImageService
	achievements Sink
	locks        *SessionLocks

	waitLimit  time.Duration // how long a WAITING session sits before bot fill
	finishWait time.Duration // how long a finished player waits for the others
}

// NewMultiplayerService creates a new multiplayer service
func NewMultiplayerService(store MultiplayerStore, images *ImageService, achievements Sink, locks *SessionLocks, waitLimit, finishWait time.Duration) *MultiplayerService {
	return &MultiplayerService{
		store:        store,
		images:       images,
		achievements: achievements,
		locks:        locks,
		waitLimit:    waitLimit,
		finishWait:   finishWait,
	}
}

// Create opens a new session in WAITING with the creator in slot 0. Chest
// values are shuffled across the four chests at creation time.
func (m *MultiplayerService) Create(difficulty models.Difficulty, totalTurnsOverride int, hostUserID *int64, hostName string) (*models.MultiplayerSession, error) {
	settings, ok := models.SettingsFor(models.ModeSingle, difficulty)
	if !ok {
		return nil, ErrInvalidModeOrDifficulty
	}
	if hostName == "" {
		return nil, ErrInvalidModeOrDifficulty
	}

	totalTurns := settings.TotalTurns
	if totalTurnsOverride > 0 {
		totalTurns = totalTurnsOverride
	}

	session := &models.MultiplayerSession{
		ID:          security.GenerateSessionID(),
		Status:      models.StatusWaiting,
		Difficulty:  difficulty,
		CurrentTurn: 1,
		TotalTurns:  totalTurns,
	}

	session.Players[0] = models.PlayerSlot{
		UserID:     hostUserID,
		Name:       hostName,
		ChestIndex: -1,
	}
	for i := 1; i < models.MaxPlayers; i++ {
		session.Players[i].ChestIndex = -1
	}

	values := models.ChestValues
	rand.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	for i := range session.Chests {
		session.Chests[i] = models.Chest{Value: values[i], ClaimedBy: -1}
	}

	if err := m.store.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create multiplayer session: %w", err)
	}
	return session, nil
}

// Join adds a player to a waiting session. The session moves to IN_PROGRESS
// once a second player joins.
func (m *MultiplayerService) Join(sessionID string, userID *int64, name string) (*models.MultiplayerSession, int, error) {
	unlock := m.locks.Acquire(sessionID)
	defer unlock()

	session, err := m.load(sessionID)
	if err != nil {
		return nil, -1, err
	}
	if session.Status == models.StatusCompleted {
		return nil, -1, ErrGameCompleted
	}

	// Rejoin: the player already holds a slot
	if slot := session.FindPlayer(userID, name); slot >= 0 {
		return session, slot, nil
	}

	slot := session.FreeSlot()
	if slot < 0 {
		return nil, -1, ErrSessionFull
	}

	session.Players[slot] = models.PlayerSlot{
		UserID:     userID,
		Name:       name,
		ChestIndex: -1,
	}
	if session.Status == models.StatusWaiting && session.PlayerCount() >= 2 {
		session.Status = models.StatusInProgress
	}

	if err := m.store.Update(session); err != nil {
		return nil, -1, fmt.Errorf("failed to persist join: %w", err)
	}
	return session, slot, nil
}

// GetTurnImages returns the shared image pair for the current turn, selecting
// a fresh one when none is pending
func (m *MultiplayerService) GetTurnImages(sessionID string) (*MultiplayerTurnView, error) {
	unlock := m.locks.Acquire(sessionID)
	defer unlock()

	session, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}
	return m.turnImagesLocked(session)
}

// SubmitAnswer records one player's answer for the shared pair. A correct
// answer is worth exactly one point; the streak is tracked for display but
// never scored. A repeated submission for the same turn is a benign no-op.
func (m *MultiplayerService) SubmitAnswer(sessionID string, userID *int64, name, selection string) (*MultiplayerAnswerResult, error) {
	if selection != "real" && selection != "ai" {
		return nil, ErrInvalidSelection
	}

	unlock := m.locks.Acquire(sessionID)
	defer unlock()

	session, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusInProgress {
		return nil, ErrSessionNotInProgress
	}
	if session.CurrentRealImage == 0 || session.CurrentAIImage == 0 {
		return nil, ErrNoPendingTurn
	}

	slot := session.FindPlayer(userID, name)
	if slot < 0 {
		return nil, ErrPlayerNotInSession
	}
	player := &session.Players[slot]

	if player.Answered {
		return &MultiplayerAnswerResult{
			Duplicate:  true,
			PlayerSlot: slot,
			Score:      player.Score,
			Streak:     player.Streak,
		}, nil
	}

	correct := selection == "real"
	if correct {
		player.Score++
		player.Streak++
	} else {
		player.Streak = 0
	}
	player.Answered = true

	if err := m.store.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist answer: %w", err)
	}

	return &MultiplayerAnswerResult{
		Correct:    correct,
		PlayerSlot: slot,
		Score:      player.Score,
		Streak:     player.Streak,
	}, nil
}

// AdvanceTurn moves the whole session forward once every human player has
// answered. Bot slots pick up their simulated answers here.
func (m *MultiplayerService) AdvanceTurn(sessionID string) (*MultiplayerTurnView, error) {
	unlock := m.locks.Acquire(sessionID)
	defer unlock()

	session, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.StatusCompleted {
		return m.terminalView(session), nil
	}
	if session.Status != models.StatusInProgress {
		return nil, ErrSessionNotInProgress
	}
	if !session.AllAnswered() {
		return nil, ErrTurnNotComplete
	}

	m.simulateBots(session)

	for i := range session.Players {
		session.Players[i].Answered = false
	}
	session.CurrentRealImage = 0
	session.CurrentAIImage = 0
	session.CurrentTurn++

	if session.TotalTurns > 0 && session.CurrentTurn > session.TotalTurns {
		session.Status = models.StatusCompleted
		if err := m.store.Update(session); err != nil {
			return nil, fmt.Errorf("failed to persist completion: %w", err)
		}
		return m.terminalView(session), nil
	}

	if err := m.store.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist turn advance: %w", err)
	}
	return m.turnImagesLocked(session)
}

// GetBonusImages selects a chest-qualifier challenge for one player
func (m *MultiplayerService) GetBonusImages(sessionID string, userID *int64, name string) (*models.BonusChallenge, error) {
	unlock := m.locks.Acquire(sessionID)
	defer unlock()

	session, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.FindPlayer(userID, name) < 0 {
		return nil, ErrPlayerNotInSession
	}

	challenge, err := m.images.SelectBonusSet(session.Difficulty, session.ShownImages)
	if err != nil {
		return nil, err
	}

	for i := range challenge.Images {
		session.ShownImages = append(session.ShownImages, challenge.Images[i].ID)
	}
	if challenge.Image != nil {
		session.ShownImages = append(session.ShownImages, challenge.Image.ID)
	}

	if err := m.store.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist bonus images: %w", err)
	}
	return challenge, nil
}

// HandleBonusResult records the chest-qualifier outcome. A correct answer
// makes the player eligible to pick a chest; a wrong one has no penalty.
func (m *MultiplayerService) HandleBonusResult(sessionID string, userID *int64, name string, correct bool) error {
	unlock := m.locks.Acquire(sessionID)
	defer unlock()

	session, err := m.load(sessionID)
	if err != nil {
		return err
	}
	slot := session.FindPlayer(userID, name)
	if slot < 0 {
		return ErrPlayerNotInSession
	}

	if correct {
		session.Players[slot].BonusEligible = true
		if err := m.store.Update(session); err != nil {
			return fmt.Errorf("failed to persist bonus result: %w", err)
		}
	}
	return nil
}

// SelectChest claims one chest for an eligible player and adds its value to
// the player's score. Each chest and each player may be matched at most once.
func (m *MultiplayerService) SelectChest(sessionID string, userID *int64, name string, chestIndex int) (*ChestResult, error) {
	if chestIndex < 0 || chestIndex >= models.ChestCount {
		return nil, ErrInvalidChestIndex
	}

	unlock := m.locks.Acquire(sessionID)
	defer unlock()

	session, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}

	slot := session.FindPlayer(userID, name)
	if slot < 0 {
		return nil, ErrPlayerNotInSession
	}
	player := &session.Players[slot]

	if !player.BonusEligible {
		return nil, ErrChestNotEligible
	}
	if player.ChestIndex >= 0 {
		return nil, ErrPlayerAlreadyChose
	}
	chest := &session.Chests[chestIndex]
	if chest.ClaimedBy >= 0 {
		return nil, ErrChestAlreadyTaken
	}

	chest.ClaimedBy = slot
	player.ChestIndex = chestIndex
	player.Score += chest.Value

	if err := m.store.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist chest selection: %w", err)
	}

	return &ChestResult{
		PlayerSlot: slot,
		ChestIndex: chestIndex,
		Value:      chest.Value,
		Score:      player.Score,
		Chests:     session.Chests,
	}, nil
}

// MarkFinished records that a player reached the end screen. The session
// completes once every human player has finished, but only after the turn
// loop itself is over; a player finishing early never ends the game for the
// others.
func (m *MultiplayerService) MarkFinished(sessionID string, userID *int64, name string) error {
	unlock := m.locks.Acquire(sessionID)
	defer unlock()

	session, err := m.load(sessionID)
	if err != nil {
		return err
	}
	slot := session.FindPlayer(userID, name)
	if slot < 0 {
		return ErrPlayerNotInSession
	}

	player := &session.Players[slot]
	if !player.Finished {
		now := time.Now()
		player.Finished = true
		player.FinishedAt = &now
	}
	if session.AllFinished() && session.CurrentTurn > session.TotalTurns {
		session.Status = models.StatusCompleted
	}

	if err := m.store.Update(session); err != nil {
		return fmt.Errorf("failed to persist finish: %w", err)
	}
	return nil
}

// CanSubmitScore reports whether a finished player may submit their score to
// the leaderboard: either everyone has finished, or the bounded wait since
// this player finished has elapsed.
func (m *MultiplayerService) CanSubmitScore(sessionID string, userID *int64, name string, now time.Time) error {
	unlock := m.locks.Acquire(sessionID)
	defer unlock()

	session, err := m.load(sessionID)
	if err != nil {
		return err
	}
	slot := session.FindPlayer(userID, name)
	if slot < 0 {
		return ErrPlayerNotInSession
	}

	player := &session.Players[slot]
	if !player.Finished {
		return ErrGameNotCompleted
	}
	if session.AllFinished() {
		return nil
	}
	if player.FinishedAt != nil && now.Sub(*player.FinishedAt) >= m.finishWait {
		return nil
	}
	return ErrFinishWaitActive
}

// ResolveWinner returns the final standings of a completed session. A shared
// top score is surfaced as a tie, never an arbitrary pick.
func (m *MultiplayerService) ResolveWinner(sessionID string) (*MultiplayerResult, error) {
	unlock := m.locks.Acquire(sessionID)
	defer unlock()

	session, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusCompleted {
		return nil, ErrGameNotCompleted
	}

	slot, tie := session.Winner()
	if slot >= 0 {
		winner := &session.Players[slot]
		if winner.UserID != nil {
			m.achievements.Award(*winner.UserID, models.AchievementMultiplayerWin)
		}
	}

	return &MultiplayerResult{
		WinnerSlot: slot,
		Tie:        tie,
		Players:    session.Players,
	}, nil
}

// SweepWaiting fills sessions stuck in WAITING past the wait limit with bot
// players and starts them. Returns the number of sessions started.
func (m *MultiplayerService) SweepWaiting(now time.Time) (int, error) {
	cutoff := now.Add(-m.waitLimit)
	sessions, err := m.store.ListWaitingBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list waiting sessions: %w", err)
	}

	started := 0
	for _, stale := range sessions {
		unlock := m.locks.Acquire(stale.ID)

		session, err := m.load(stale.ID)
		if err != nil {
			unlock()
			continue
		}
		if session.Status != models.StatusWaiting {
			unlock()
			continue
		}

		botNumber := 1
		for i := range session.Players {
			if session.Players[i].Occupied() {
				continue
			}
			session.Players[i] = models.PlayerSlot{
				Name:       fmt.Sprintf("Bot %d", botNumber),
				ChestIndex: -1,
				IsBot:      true,
			}
			botNumber++
		}
		session.Status = models.StatusInProgress

		if err := m.store.Update(session); err != nil {
			unlock()
			return started, fmt.Errorf("failed to start session %s: %w", session.ID, err)
		}
		started++
		unlock()
	}
	return started, nil
}

func (m *MultiplayerService) load(sessionID string) (*models.MultiplayerSession, error) {
	session, err := m.store.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load multiplayer session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (m *MultiplayerService) turnImagesLocked(session *models.MultiplayerSession) (*MultiplayerTurnView, error) {
	if session.Status == models.StatusCompleted {
		return m.terminalView(session), nil
	}

	if session.CurrentRealImage == 0 || session.CurrentAIImage == 0 {
		pair, err := m.images.SelectPair(session.Difficulty, session.ShownImages)
		if err != nil {
			return nil, err
		}
		session.CurrentRealImage = pair.Real.ID
		session.CurrentAIImage = pair.AI.ID
		session.LeftIsReal = pair.LeftIsReal
		session.ShownImages = append(session.ShownImages, pair.Real.ID, pair.AI.ID)

		if err := m.store.Update(session); err != nil {
			return nil, fmt.Errorf("failed to persist turn images: %w", err)
		}
	}

	realImg, err := m.images.catalog.GetByID(session.CurrentRealImage)
	if err != nil {
		return nil, fmt.Errorf("failed to load real image: %w", err)
	}
	aiImg, err := m.images.catalog.GetByID(session.CurrentAIImage)
	if err != nil {
		return nil, fmt.Errorf("failed to load AI image: %w", err)
	}
	if realImg == nil || aiImg == nil {
		return nil, ErrNoImagesAvailable
	}

	pair := models.ImagePair{Real: *realImg, AI: *aiImg, LeftIsReal: session.LeftIsReal}
	left, right := pair.Left(), pair.Right()

	view := m.terminalView(session)
	view.Completed = false
	view.Left = &left
	view.Right = &right
	view.LeftIsReal = session.LeftIsReal
	return view, nil
}

func (m *MultiplayerService) terminalView(session *models.MultiplayerSession) *MultiplayerTurnView {
	return &MultiplayerTurnView{
		SessionID:  session.ID,
		Status:     session.Status,
		Turn:       session.CurrentTurn,
		TotalTurns: session.TotalTurns,
		Completed:  session.Status == models.StatusCompleted,
		Players:    session.Players,
	}
}

// simulateBots gives each bot slot its answer for the turn just played. Bots
// guess at coin-flip accuracy so filled games stay competitive but beatable.
func (m *MultiplayerService) simulateBots(session *models.MultiplayerSession) {
	for i := range session.Players {
		p := &session.Players[i]
		if !p.Occupied() || !p.IsBot {
			continue
		}
		if rand.Intn(2) == 0 {
			p.Score++
			p.Streak++
		} else {
			p.Streak = 0
		}
	}
}
