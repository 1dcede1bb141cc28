// Package session keeps per-session conversation history for the
// lifetime of the process. History is intentionally not persisted: a
// restart loses it, which is acceptable for this service.
package session

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// Store maps session ids to a bounded ordered list of turns.
//
// Eviction policy: sessions idle longer than the configured TTL are
// purged by the cache janitor, so memory stays bounded for long-running
// processes. Within a session the turn list is truncated FIFO to
// maxEntries (even, user+assistant pairs); dropped turns are discarded,
// never summarized.
type Store struct {
	maxEntries int
	sessions   *gocache.Cache

	// mu serializes read-modify-write of a session's turn slice.
	// Append must be atomic per session: a lost update here corrupts
	// conversational continuity, unlike the cosmetic style counter.
	mu sync.Mutex
}

// New builds a store keeping at most maxEntries turns per session, with
// TTL-based eviction of idle sessions.
func New(maxEntries int, ttl, purgeInterval time.Duration) *Store {
	return &Store{
		maxEntries: maxEntries,
		sessions:   gocache.New(ttl, purgeInterval),
	}
}

// Get returns a copy of the session's turns, oldest first. Unknown ids
// yield an empty list; the session itself is created lazily on the first
// Append.
func (s *Store) Get(sessionID string) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil
	}
	turns := v.([]domain.Turn)
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}

// Append adds the completed turn pair and truncates to the most recent
// maxEntries entries. Appending also refreshes the session's TTL.
func (s *Store) Append(sessionID string, userTurn, assistantTurn domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var turns []domain.Turn
	if v, ok := s.sessions.Get(sessionID); ok {
		turns = v.([]domain.Turn)
	}
	turns = append(turns, userTurn, assistantTurn)
	if s.maxEntries > 0 && len(turns) > s.maxEntries {
		turns = turns[len(turns)-s.maxEntries:]
	}
	s.sessions.SetDefault(sessionID, turns)
}

// Len reports the number of live sessions (expired entries excluded).
func (s *Store) Len() int {
	return s.sessions.ItemCount()
}
