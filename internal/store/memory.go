// internal/store/memory.go
//
// In-memory store for live daily sessions.
//
// Characteristics:
//   - Stores *game.Game objects keyed by session ID.
//   - A second index maps owner|date to the session so /daily/new can resume.
//   - Concurrency-safe via RWMutex; callers serialize guesses per session
//     with Lock.
//   - When the first session of a new day is saved, sessions dated before
//     the previous day and all preview sessions are dropped, so a game begun
//     just before midnight can still be finished.
//   - State is lost when the process restarts; finished games live on in
//     SQLite (results, stats, game logs).

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/hang10/internal/game"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Session is a live game plus who is playing it.
type Session struct {
	mu      sync.Mutex
	Game    *game.Game
	OwnerID string
	Preview bool // portal preview: never recorded
}

// Lock serializes guesses on one session.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Store defines the persistence interface for live sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by game ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// ForOwner returns the live session for owner on date, or ErrNotFound.
	ForOwner(ctx context.Context, owner, date string) (*Session, error)
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session // keyed by Game.ID
	byOwner  map[string]string   // owner|date -> Game.ID
	day      string              // latest date of a non-preview session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session), byOwner: make(map[string]string)}
}

func ownerKey(owner, date string) string { return owner + "|" + date }

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	date := s.Game.Set.Date
	if !s.Preview && date > m.day {
		if m.day != "" {
			m.evictBefore(m.day)
		}
		m.day = date
	}
	m.sessions[s.Game.ID] = s
	if !s.Preview {
		m.byOwner[ownerKey(s.OwnerID, date)] = s.Game.ID
	}
	return nil
}

// evictBefore drops previews and sessions dated before cutoff. Caller holds mu.
func (m *memory) evictBefore(cutoff string) {
	for id, s := range m.sessions {
		date := s.Game.Set.Date
		if !s.Preview && date >= cutoff {
			continue
		}
		delete(m.sessions, id)
		if !s.Preview {
			delete(m.byOwner, ownerKey(s.OwnerID, date))
		}
	}
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) ForOwner(ctx context.Context, owner, date string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byOwner[ownerKey(owner, date)]; ok {
		if s, ok := m.sessions[id]; ok {
			return s, nil
		}
	}
	return nil, ErrNotFound
}
