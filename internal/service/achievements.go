package service

import (
	"log"
	"sync"
)

// Sink receives fire-and-forget achievement awards. Implementations must not
// block the calling game operation.
type Sink interface {
	Award(userID int64, code string)
}

// NoopSink discards awards. Used when no achievement store is configured.
type NoopSink struct{}

func (NoopSink) Award(int64, string) {}

// AchievementStore persists awards. Duplicate awards are a no-op.
type AchievementStore interface {
	Award(userID int64, code string) error
}

type award struct {
	userID int64
	code   string
}

// AsyncSink forwards awards to a store on a background worker so game
// operations never wait on the achievements table.
type AsyncSink struct {
	store AchievementStore
	ch    chan award
	wg    sync.WaitGroup
}

// NewAsyncSink starts the worker goroutine
func NewAsyncSink(store AchievementStore) *AsyncSink {
	s := &AsyncSink{
		store: store,
		ch:    make(chan award, 64),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *AsyncSink) run() {
	defer s.wg.Done()
	for a := range s.ch {
		if err := s.store.Award(a.userID, a.code); err != nil {
			log.Printf("Failed to award achievement %s to user %d: %v", a.code, a.userID, err)
		}
	}
}

// Award enqueues an award. A full queue drops the award rather than blocking.
func (s *AsyncSink) Award(userID int64, code string) {
	select {
	case s.ch <- award{userID: userID, code: code}:
	default:
		log.Printf("Achievement queue full, dropping %s for user %d", code, userID)
	}
}

// Close drains the queue and stops the worker
func (s *AsyncSink) Close() {
	close(s.ch)
	s.wg.Wait()
}
