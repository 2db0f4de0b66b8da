// Package sqlite provides a SQLite implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/edvocate/memshare-go/pkg/storage"
)

// Store implements storage.Store using SQLite as the backend.
type Store struct {
	// db is the SQLite database connection.
	db *sql.DB
}

// Config contains configuration for creating a SQLite Store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string
}

// NewStore creates a new SQLite Store.
//
// Parameters:
//   - cfg: Configuration containing the database path
//
// Returns:
//   - *Store: The store instance
//   - error: Error if database connection or table creation fails
func NewStore(cfg *Config) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// initTables initializes the database table structure.
func (s *Store) initTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS goals (
			id INTEGER PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			due_date TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user_id ON goals(user_id)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_user_id ON documents(user_id)`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			date TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id)`,
		`CREATE TABLE IF NOT EXISTS shared_memories (
			id INTEGER PRIMARY KEY,
			user_id TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			shared_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shared_memories_user_id ON shared_memories(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// CreateGoal inserts a goal. The caller assigns the ID.
func (s *Store) CreateGoal(ctx context.Context, goal *storage.Goal) error {
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO goals (id, user_id, title, description, status, progress, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		goal.ID, goal.UserID, goal.Title, goal.Description, goal.Status, goal.Progress, goal.DueDate, goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// GetGoalsByUserID returns all goals for a user, oldest first.
func (s *Store) GetGoalsByUserID(ctx context.Context, userID string) ([]*storage.Goal, error) {
	query := `
		SELECT id, user_id, title, description, status, progress, due_date, created_at
		FROM goals
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []*storage.Goal
	for rows.Next() {
		var goal storage.Goal
		var description sql.NullString
		var dueDate sql.NullTime

		err := rows.Scan(&goal.ID, &goal.UserID, &goal.Title, &description, &goal.Status, &goal.Progress, &dueDate, &goal.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goal.Description = description.String
		if dueDate.Valid {
			due := dueDate.Time
			goal.DueDate = &due
		}
		goals = append(goals, &goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return goals, nil
}

// CreateDocument inserts a document. The caller assigns the ID.
func (s *Store) CreateDocument(ctx context.Context, doc *storage.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	query := `INSERT INTO documents (id, user_id, title, created_at) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, doc.ID, doc.UserID, doc.Title, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetDocumentsByUserID returns all documents for a user, oldest first.
func (s *Store) GetDocumentsByUserID(ctx context.Context, userID string) ([]*storage.Document, error) {
	query := `
		SELECT id, user_id, title, created_at
		FROM documents
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []*storage.Document
	for rows.Next() {
		var doc storage.Document
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Title, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return docs, nil
}

// CreateEvent inserts an event. The caller assigns the ID.
func (s *Store) CreateEvent(ctx context.Context, event *storage.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query := `INSERT INTO events (id, user_id, title, date, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, event.ID, event.UserID, event.Title, event.Date, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEventsByUserID returns all events for a user, soonest first.
func (s *Store) GetEventsByUserID(ctx context.Context, userID string) ([]*storage.Event, error) {
	query := `
		SELECT id, user_id, title, date, created_at
		FROM events
		WHERE user_id = ?
		ORDER BY date ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*storage.Event
	for rows.Next() {
		var event storage.Event
		if err := rows.Scan(&event.ID, &event.UserID, &event.Title, &event.Date, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// CreateSharedMemory inserts a shared memory.
func (s *Store) CreateSharedMemory(ctx context.Context, memory *storage.SharedMemory) error {
	query := `INSERT INTO shared_memories (id, user_id, question, answer, shared_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, memory.ID, memory.UserID, memory.Question, memory.Answer, memory.SharedAt)
	if err != nil {
		return fmt.Errorf("failed to insert shared memory: %w", err)
	}
	return nil
}

// GetSharedMemoriesByUserID returns all shared memories for a user, newest first.
func (s *Store) GetSharedMemoriesByUserID(ctx context.Context, userID string) ([]*storage.SharedMemory, error) {
	query := `
		SELECT id, user_id, question, answer, shared_at
		FROM shared_memories
		WHERE user_id = ?
		ORDER BY shared_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shared memories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var memories []*storage.SharedMemory
	for rows.Next() {
		var memory storage.SharedMemory
		if err := rows.Scan(&memory.ID, &memory.UserID, &memory.Question, &memory.Answer, &memory.SharedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shared memory: %w", err)
		}
		memories = append(memories, &memory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return memories, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
