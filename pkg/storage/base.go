// Package storage provides interfaces and types for the advocacy data backends.
//
// It defines the Store interface that all storage implementations must satisfy,
// along with the record types for goals, documents, events, and shared memories.
package storage

import (
	"context"
	"time"
)

// Goal statuses as stored and displayed by the product.
const (
	GoalStatusNotStarted = "Not Started"
	GoalStatusInProgress = "In Progress"
	GoalStatusCompleted  = "Completed"
)

// Goal represents an IEP goal tracked for a student.
type Goal struct {
	// ID is the unique identifier of the goal.
	ID int64

	// UserID identifies the user who owns this goal.
	UserID string

	// Title is the short name of the goal.
	Title string

	// Description is the longer free-text description of the goal.
	Description string

	// Status is one of GoalStatusNotStarted, GoalStatusInProgress, GoalStatusCompleted.
	Status string

	// Progress is the completion percentage (0-100).
	Progress int

	// DueDate is when the goal is due (nil if no due date is set).
	DueDate *time.Time

	// CreatedAt is when the goal was created.
	CreatedAt time.Time
}

// Document represents an uploaded document belonging to a user.
type Document struct {
	// ID is the unique identifier of the document.
	ID int64

	// UserID identifies the user who owns this document.
	UserID string

	// Title is the display name of the document.
	Title string

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time
}

// Event represents a scheduled meeting or deadline for a user.
type Event struct {
	// ID is the unique identifier of the event.
	ID int64

	// UserID identifies the user who owns this event.
	UserID string

	// Title is the display name of the event.
	Title string

	// Date is when the event takes place.
	Date time.Time

	// CreatedAt is when the event was created.
	CreatedAt time.Time
}

// SharedMemory represents a persisted (question, answer) pair flagged for
// advocate visibility.
//
// Shared memories are immutable once created: no update or delete operation
// exists on the Store interface.
type SharedMemory struct {
	// ID is the unique identifier of the shared memory.
	ID int64

	// UserID identifies the user who asked the question.
	UserID string

	// Question is the free-text question as submitted.
	Question string

	// Answer is the generated answer text.
	Answer string

	// SharedAt is the server-assigned persistence timestamp.
	SharedAt time.Time
}

// Store defines the interface for advocacy data backends.
//
// All storage implementations (in-memory, SQLite, PostgreSQL, MySQL) must
// implement this interface. Reads for an unknown user return empty results,
// not an error.
type Store interface {
	// CreateGoal inserts a goal. The caller assigns the ID.
	CreateGoal(ctx context.Context, goal *Goal) error

	// GetGoalsByUserID returns all goals for a user, oldest first.
	GetGoalsByUserID(ctx context.Context, userID string) ([]*Goal, error)

	// CreateDocument inserts a document. The caller assigns the ID.
	CreateDocument(ctx context.Context, doc *Document) error

	// GetDocumentsByUserID returns all documents for a user, oldest first.
	GetDocumentsByUserID(ctx context.Context, userID string) ([]*Document, error)

	// CreateEvent inserts an event. The caller assigns the ID.
	CreateEvent(ctx context.Context, event *Event) error

	// GetEventsByUserID returns all events for a user, soonest first.
	GetEventsByUserID(ctx context.Context, userID string) ([]*Event, error)

	// CreateSharedMemory inserts a shared memory.
	//
	// The insert is atomic: on error no partial record is visible. A
	// successfully created record is immediately visible to
	// GetSharedMemoriesByUserID.
	CreateSharedMemory(ctx context.Context, memory *SharedMemory) error

	// GetSharedMemoriesByUserID returns all shared memories for a user,
	// newest first.
	GetSharedMemoriesByUserID(ctx context.Context, userID string) ([]*SharedMemory, error)

	// Close closes the store and releases resources.
	Close() error
}
