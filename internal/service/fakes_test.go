package service

import (
	"fmt"
	"sync"
	"time"

	"realvsai/internal/models"
)

// fakeSessionStore is an in-memory SessionStore
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.GameSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.GameSession)}
}

func (f *fakeSessionStore) Create(s *models.GameSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *s
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeSessionStore) GetByID(sessionID string) (*models.GameSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *s
	copied.ShownImages = append([]int64{}, s.ShownImages...)
	return &copied, nil
}

func (f *fakeSessionStore) Update(s *models.GameSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *s
	copied.ShownImages = append([]int64{}, s.ShownImages...)
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeSessionStore) ActiveForUserAndMode(userID int64, mode models.GameMode) (*models.GameSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.GameSession
	for _, s := range f.sessions {
		if s.Completed || s.Mode != mode || s.OwnerUserID == nil || *s.OwnerUserID != userID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

// fakeCatalog is a deterministic in-memory ImageCatalog: PickRandomUnused
// returns the lowest-ID image matching the filters
type fakeCatalog struct {
	images []models.Image
}

// newFakeCatalog builds a catalog of n real/AI pairs for a difficulty. Real
// images get odd IDs, AI images even, starting at 1.
func newFakeCatalog(n int, difficulty models.Difficulty) *fakeCatalog {
	c := &fakeCatalog{}
	for i := 0; i < n; i++ {
		c.images = append(c.images,
			models.Image{
				ID:          int64(2*i + 1),
				FileName:    fmt.Sprintf("real_%d.jpg", i),
				Description: fmt.Sprintf("a real photo %d", i),
				IsReal:      true,
				Difficulty:  difficulty,
			},
			models.Image{
				ID:         int64(2*i + 2),
				FileName:   fmt.Sprintf("ai_%d.jpg", i),
				IsReal:     false,
				Difficulty: difficulty,
			},
		)
	}
	return c
}

func (c *fakeCatalog) GetByID(imageID int64) (*models.Image, error) {
	for i := range c.images {
		if c.images[i].ID == imageID {
			img := c.images[i]
			return &img, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) PickRandomUnused(difficulty models.Difficulty, isReal bool, excluded []int64) (*models.Image, error) {
	skip := make(map[int64]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	for i := range c.images {
		img := c.images[i]
		if img.IsReal != isReal || skip[img.ID] {
			continue
		}
		if difficulty != models.DifficultyEndless && img.Difficulty != difficulty {
			continue
		}
		return &img, nil
	}
	return nil, nil
}

// fakeMultiplayerStore is an in-memory MultiplayerStore
type fakeMultiplayerStore struct {
	mu       sync.Mutex
	sessions map[string]*models.MultiplayerSession
}

func newFakeMultiplayerStore() *fakeMultiplayerStore {
	return &fakeMultiplayerStore{sessions: make(map[string]*models.MultiplayerSession)}
}

func (f *fakeMultiplayerStore) Create(s *models.MultiplayerSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.CreatedAt = time.Now()
	copied := *s
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeMultiplayerStore) GetByID(sessionID string) (*models.MultiplayerSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *s
	copied.ShownImages = append([]int64{}, s.ShownImages...)
	return &copied, nil
}

func (f *fakeMultiplayerStore) Update(s *models.MultiplayerSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *s
	copied.ShownImages = append([]int64{}, s.ShownImages...)
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeMultiplayerStore) ListWaitingBefore(cutoff time.Time) ([]*models.MultiplayerSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MultiplayerSession
	for _, s := range f.sessions {
		if s.Status == models.StatusWaiting && s.CreatedAt.Before(cutoff) {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

// recordingSink captures awards synchronously
type recordingSink struct {
	mu     sync.Mutex
	awards []string
}

func (r *recordingSink) Award(userID int64, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.awards = append(r.awards, fmt.Sprintf("%d:%s", userID, code))
}

func (r *recordingSink) has(userID int64, code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := fmt.Sprintf("%d:%s", userID, code)
	for _, a := range r.awards {
		if a == want {
			return true
		}
	}
	return false
}
