// Package suppress implements duplicate-question suppression for the
// answer-and-share pipeline.
//
// A Suppressor tracks recently accepted (user, question) pairs in a bounded
// time window so an identical question from the same user is not re-persisted
// or re-notified within the window.
package suppress

import (
	"strings"
	"sync"
	"time"
)

// DefaultWindow is the suppression window applied when none is configured.
const DefaultWindow = 60 * time.Second

// Entry is one tracked (user, question) record.
type Entry struct {
	// Key is the normalized composite key (userID + ":" + normalized question).
	Key string

	// Question is the original question text as first recorded.
	Question string

	// RecordedAt is when the key was last accepted (not refreshed on
	// duplicate hits).
	RecordedAt time.Time
}

// Suppressor tracks recently accepted questions per user.
//
// State is scoped to a single process's memory: it resets on restart and
// gives no cross-instance guarantee. A multi-instance deployment would swap
// the map for a shared TTL-keyed store with the same key derivation and
// window. Each CheckAndRecord call is atomic within this process; the map is
// never exposed for direct mutation.
type Suppressor struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]*Entry

	// now is the clock source, overridable in tests.
	now func() time.Time
}

// Option configures a Suppressor.
type Option func(*Suppressor)

// WithNow overrides the clock source.
func WithNow(now func() time.Time) Option {
	return func(s *Suppressor) {
		s.now = now
	}
}

// New creates a Suppressor with the given window.
//
// If window is 0, DefaultWindow is used.
func New(window time.Duration, opts ...Option) *Suppressor {
	if window == 0 {
		window = DefaultWindow
	}
	s := &Suppressor{
		window:  window,
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Window returns the configured suppression window.
func (s *Suppressor) Window() time.Duration {
	return s.window
}

// Key derives the composite suppression key for a (user, question) pair.
//
// The question is lower-cased and trimmed so that case and surrounding
// whitespace variants map to the same key.
func Key(userID, question string) string {
	return userID + ":" + strings.TrimSpace(strings.ToLower(question))
}

// CheckAndRecord reports whether the question is a duplicate for the user
// within the window, recording it if it is not.
//
// A duplicate hit does not refresh the stored timestamp: the original
// acceptance time keeps counting toward expiry. Expired entries are evicted
// opportunistically on every call to bound memory; there is no background
// timer.
func (s *Suppressor) CheckAndRecord(userID, question string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	key := Key(userID, question)
	if entry, ok := s.entries[key]; ok && now.Sub(entry.RecordedAt) < s.window {
		return true
	}

	s.entries[key] = &Entry{
		Key:        key,
		Question:   question,
		RecordedAt: now,
	}
	return false
}

// Snapshot returns the live (non-expired) entries, for diagnostics.
func (s *Suppressor) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	entries := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, *entry)
	}
	return entries
}

// Len returns the number of live entries, for diagnostics and tests.
func (s *Suppressor) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(s.now())
	return len(s.entries)
}

// evictLocked removes entries older than the window. Callers must hold mu.
func (s *Suppressor) evictLocked(now time.Time) {
	for key, entry := range s.entries {
		if now.Sub(entry.RecordedAt) >= s.window {
			delete(s.entries, key)
		}
	}
}
