// Package memory provides an in-memory session and team store used by
// tests and development runs. Mutations are serialized per session id
// with per-key locks.
package memory

import (
	"context"
	"sync"

	"github.com/sandlotlabs/dugout/internal/game"
	"github.com/sandlotlabs/dugout/internal/roster"
	"github.com/sandlotlabs/dugout/internal/storage"
)

// Store keeps sessions and teams in process memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]game.Session
	teams    map[string]roster.Team

	keyMu sync.Mutex
	keys  map[string]*sync.Mutex
}

// New builds an empty store.
func New() *Store {
	return &Store{
		sessions: make(map[string]game.Session),
		teams:    make(map[string]roster.Team),
		keys:     make(map[string]*sync.Mutex),
	}
}

// keyLock returns the mutex serializing writes for one session id.
func (s *Store) keyLock(id string) *sync.Mutex {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()
	lock, ok := s.keys[id]
	if !ok {
		lock = &sync.Mutex{}
		s.keys[id] = lock
	}
	return lock
}

// Save inserts or replaces a session.
func (s *Store) Save(_ context.Context, session game.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

// Get returns the session with the given id.
func (s *Store) Get(_ context.Context, id string) (game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return game.Session{}, storage.ErrNotFound
	}
	return cloneSession(session), nil
}

// GetByJoinCode returns the waiting session holding the join code.
func (s *Store) GetByJoinCode(_ context.Context, code string) (game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if session.Status == game.StatusWaiting && session.JoinCode == code {
			return cloneSession(session), nil
		}
	}
	return game.Session{}, storage.ErrNotFound
}

// ListByUser returns the user's sessions, optionally filtered by status.
func (s *Store) ListByUser(_ context.Context, userID string, statuses ...game.Status) ([]game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []game.Session
	for _, session := range s.sessions {
		if !session.IsParticipant(userID) {
			continue
		}
		if len(statuses) > 0 && !statusIn(session.Status, statuses) {
			continue
		}
		out = append(out, cloneSession(session))
	}
	return out, nil
}

// Mutate applies fn to the session under its per-id lock and persists
// the result. When fn errors nothing is written.
func (s *Store) Mutate(ctx context.Context, id string, fn func(game.Session) (game.Session, error)) (game.Session, error) {
	lock := s.keyLock(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return game.Session{}, err
	}

	updated, err := fn(current)
	if err != nil {
		return game.Session{}, err
	}

	if err := s.Save(ctx, updated); err != nil {
		return game.Session{}, err
	}
	return updated, nil
}

// Delete removes a session.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// PutTeam inserts or replaces a team.
func (s *Store) PutTeam(_ context.Context, team roster.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.ID] = team
	return nil
}

// GetTeam returns the team with the given id.
func (s *Store) GetTeam(_ context.Context, id string) (roster.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[id]
	if !ok {
		return roster.Team{}, storage.ErrNotFound
	}
	return team, nil
}

func statusIn(status game.Status, statuses []game.Status) bool {
	for _, candidate := range statuses {
		if status == candidate {
			return true
		}
	}
	return false
}

// cloneSession copies the pointer and slice fields so callers never
// share mutable state with the store.
func cloneSession(session game.Session) game.Session {
	cloned := session
	if session.VisitorPlayer != nil {
		visitor := *session.VisitorPlayer
		cloned.VisitorPlayer = &visitor
	}
	if session.StartedAt != nil {
		startedAt := *session.StartedAt
		cloned.StartedAt = &startedAt
	}
	if session.Moves != nil {
		cloned.Moves = append([]game.Move(nil), session.Moves...)
	}
	return cloned
}
