// Package store keeps the most recent normalized events in memory.
package store

import (
	"sync"

	"github.com/josh-kwaku/stripe-live-feed/internal/domain"
)

const DefaultCapacity = 50

// EventStore is a fixed capacity, newest-first buffer of events. It is safe
// for concurrent use. Events are ordered by insertion, not by their
// timestamps.
type EventStore struct {
	mu   sync.RWMutex
	buf  []domain.NormalizedEvent
	head int // index of the newest event
	size int
}

// New returns an empty store. A non-positive capacity means DefaultCapacity.
func New(capacity int) *EventStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &EventStore{buf: make([]domain.NormalizedEvent, capacity), head: capacity - 1}
}

func (s *EventStore) Capacity() int { return len(s.buf) }

func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Push makes e the newest event, overwriting the oldest one once the store is
// full.
func (s *EventStore) Push(e domain.NormalizedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.head = (s.head + 1) % len(s.buf)
	s.buf[s.head] = e
	if s.size < len(s.buf) {
		s.size++
	}
}

// Snapshot returns a copy of the stored events, newest first. The result is
// never nil. Pointer fields are shared with the store; events are not
// modified after Push.
func (s *EventStore) Snapshot() []domain.NormalizedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.NormalizedEvent, s.size)
	for i := range out {
		out[i] = s.buf[s.index(i)]
	}
	return out
}

// Latest returns the timestamp of the most recently pushed event.
func (s *EventStore) Latest() (domain.Timestamp, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.size == 0 {
		return domain.Timestamp{}, false
	}
	return s.buf[s.head].Timestamp, true
}

// HasNewerThan reports whether a client that last saw an event at since
// should refetch. An empty or unparseable since counts as "never saw
// anything". An empty store never has anything newer.
func (s *EventStore) HasNewerThan(since string) bool {
	latest, ok := s.Latest()
	if !ok {
		return false
	}
	if since == "" {
		return true
	}
	seen, err := domain.ParseTimestamp(since)
	if err != nil {
		return true
	}
	return latest.After(seen.Time)
}

// index maps a newest-first position to a slot in buf.
func (s *EventStore) index(pos int) int {
	n := len(s.buf)
	return (s.head - pos + n) % n
}
