// Package session keeps the per-session context tags between turns. The
// composer only reads tags in and hands tags out; ownership of the carry
// lives here, with the surface.
package session

import "sync"

type Store struct {
	mu   sync.RWMutex
	tags map[string][]string
}

func NewStore() *Store {
	return &Store{tags: make(map[string][]string)}
}

// Tags returns a copy of the session's carried tags, nil-safe for unknown
// sessions.
func (s *Store) Tags(sessionID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tags := s.tags[sessionID]
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// SetTags replaces the session's carried tags with a copy of tags.
func (s *Store) SetTags(sessionID string, tags []string) {
	cp := make([]string, len(tags))
	copy(cp, tags)
	s.mu.Lock()
	s.tags[sessionID] = cp
	s.mu.Unlock()
}

// Reset drops the session's carried context.
func (s *Store) Reset(sessionID string) {
	s.mu.Lock()
	delete(s.tags, sessionID)
	s.mu.Unlock()
}

// Len reports the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tags)
}
