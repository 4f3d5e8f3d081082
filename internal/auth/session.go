package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// Session identifies the signed-in player. It is passed explicitly to every
// component that acts on the player's behalf.
type Session struct {
	Player    *models.Player
	StartedAt time.Time
}

// NewSession starts a session for player.
func NewSession(player *models.Player) *Session {
	return &Session{Player: player, StartedAt: time.Now()}
}

// Authenticated reports whether a player is signed in.
func (s *Session) Authenticated() bool {
	return s != nil && s.Player != nil
}

// PlayerID returns the signed-in player's id, or 0.
func (s *Session) PlayerID() int64 {
	if !s.Authenticated() {
		return 0
	}
	return s.Player.ID
}

// SessionStore maps opaque bearer tokens to sessions for API clients.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

type sessionEntry struct {
	session   *Session
	expiresAt time.Time
}

// NewSessionStore creates a store whose tokens expire after ttl.
// A ttl of 0 means tokens never expire.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue starts a session for player and returns its token.
func (s *SessionStore) Issue(player *models.Player) string {
	token := uuid.NewString()
	now := s.now()

	entry := sessionEntry{session: &Session{Player: player, StartedAt: now}}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	s.sessions[token] = entry
	s.mu.Unlock()
	return token
}

// Lookup returns the live session for token.
func (s *SessionStore) Lookup(token string) (*Session, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.Revoke(token)
		return nil, false
	}
	return entry.session, true
}

// Revoke ends the session for token.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
