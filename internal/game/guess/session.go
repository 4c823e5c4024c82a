// Package guess implements the guess-the-idol round state: per-chat game
// sessions, wrong-guess accounting, and guess classification.
package guess

import (
	"errors"
	"strings"
	"sync"
)

// Errors for session operations.
var (
	ErrSessionExists   = errors.New("a game is already active in this chat")
	ErrNoActiveSession = errors.New("no active game in this chat")
)

// Session represents one active guessing round in a chat.
type Session struct {
	Target      string // normalized (lowercased) secret answer
	Limit       int    // max wrong guesses per player
	GroupName   string // optional secondary accepted answer, normalized; "" if unset
	Active      bool
	Players     map[int64]int // userID -> wrong guess count
	StarterID   int64
	StarterName string
	ImageURL    string
}

// Store holds at most one active session per chat.
type Store struct {
	sessions map[int64]*Session
	mu       sync.RWMutex
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*Session),
	}
}

// Normalize canonicalizes a target, group name, or guess for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Create inserts and activates a session for the chat.
// Returns ErrSessionExists if an active session is already present.
// Target and group name are normalized here; guesses are normalized at intake.
func (s *Store) Create(chatID int64, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[chatID]; ok && existing.Active {
		return ErrSessionExists
	}

	session.Target = Normalize(session.Target)
	session.GroupName = Normalize(session.GroupName)
	session.Active = true
	if session.Players == nil {
		session.Players = make(map[int64]int)
	}
	s.sessions[chatID] = session
	return nil
}

// Get returns the chat's active session, or nil if none exists.
func (s *Store) Get(chatID int64) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[chatID]
	if !ok || !session.Active {
		return nil
	}
	return session
}

// RecordWrongGuess increments the player's wrong-guess count and returns the
// new count. The increment is atomic per store and is rejected (current count
// returned, ok=false) once the player has reached the session limit, so a
// player can never be charged past it.
func (s *Store) RecordWrongGuess(chatID, userID int64) (count int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, found := s.sessions[chatID]
	if !found || !session.Active {
		return 0, false
	}
	if session.Players[userID] >= session.Limit {
		return session.Players[userID], false
	}
	session.Players[userID]++
	return session.Players[userID], true
}

// LimitReached reports whether the player has used up their wrong guesses.
func (s *Store) LimitReached(chatID, userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[chatID]
	if !ok || !session.Active {
		return false
	}
	return session.Players[userID] >= session.Limit
}

// Deactivate ends the chat's session and removes it from the store.
// The session snapshot is returned so callers can still read its fields
// (image URL, starter) after removal. Returns ErrNoActiveSession if the chat
// has no active session.
func (s *Store) Deactivate(chatID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok || !session.Active {
		return nil, ErrNoActiveSession
	}
	session.Active = false
	delete(s.sessions, chatID)
	return session, nil
}
