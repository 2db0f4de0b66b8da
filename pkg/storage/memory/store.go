// Package memory provides an in-memory implementation of the storage.Store
// interface, intended for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/edvocate/memshare-go/pkg/storage"
)

// Store implements storage.Store with plain in-process maps.
//
// All data is lost when the process exits. The store is safe for concurrent
// use.
type Store struct {
	mu       sync.RWMutex
	goals    map[string][]*storage.Goal
	docs     map[string][]*storage.Document
	events   map[string][]*storage.Event
	memories map[string][]*storage.SharedMemory
}

// NewStore creates a new empty in-memory Store.
func NewStore() *Store {
	return &Store{
		goals:    make(map[string][]*storage.Goal),
		docs:     make(map[string][]*storage.Document),
		events:   make(map[string][]*storage.Event),
		memories: make(map[string][]*storage.SharedMemory),
	}
}

// CreateGoal inserts a goal. The caller assigns the ID.
func (s *Store) CreateGoal(_ context.Context, goal *storage.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	cp := *goal
	s.goals[goal.UserID] = append(s.goals[goal.UserID], &cp)
	return nil
}

// GetGoalsByUserID returns all goals for a user, oldest first.
func (s *Store) GetGoalsByUserID(_ context.Context, userID string) ([]*storage.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]*storage.Goal, 0, len(s.goals[userID]))
	for _, goal := range s.goals[userID] {
		cp := *goal
		goals = append(goals, &cp)
	}
	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

// CreateDocument inserts a document. The caller assigns the ID.
func (s *Store) CreateDocument(_ context.Context, doc *storage.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	cp := *doc
	s.docs[doc.UserID] = append(s.docs[doc.UserID], &cp)
	return nil
}

// GetDocumentsByUserID returns all documents for a user, oldest first.
func (s *Store) GetDocumentsByUserID(_ context.Context, userID string) ([]*storage.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*storage.Document, 0, len(s.docs[userID]))
	for _, doc := range s.docs[userID] {
		cp := *doc
		docs = append(docs, &cp)
	}
	return docs, nil
}

// CreateEvent inserts an event. The caller assigns the ID.
func (s *Store) CreateEvent(_ context.Context, event *storage.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	cp := *event
	s.events[event.UserID] = append(s.events[event.UserID], &cp)
	return nil
}

// GetEventsByUserID returns all events for a user, soonest first.
func (s *Store) GetEventsByUserID(_ context.Context, userID string) ([]*storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*storage.Event, 0, len(s.events[userID]))
	for _, event := range s.events[userID] {
		cp := *event
		events = append(events, &cp)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

// CreateSharedMemory inserts a shared memory.
func (s *Store) CreateSharedMemory(_ context.Context, memory *storage.SharedMemory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *memory
	s.memories[memory.UserID] = append(s.memories[memory.UserID], &cp)
	return nil
}

// GetSharedMemoriesByUserID returns all shared memories for a user, newest first.
func (s *Store) GetSharedMemoriesByUserID(_ context.Context, userID string) ([]*storage.SharedMemory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memories := make([]*storage.SharedMemory, 0, len(s.memories[userID]))
	for _, memory := range s.memories[userID] {
		cp := *memory
		memories = append(memories, &cp)
	}
	sort.SliceStable(memories, func(i, j int) bool {
		return memories[i].SharedAt.After(memories[j].SharedAt)
	})
	return memories, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
